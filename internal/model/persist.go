package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SaveProject writes the project file. The on-disk shape is the in-memory
// shape; external tooling may read it directly.
func SaveProject(p *Project, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	return &p, nil
}
