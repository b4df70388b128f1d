package assets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/keagan/vibecut/internal/model"
)

// LoadBeats reads the beat detection tool's JSON output
// ({"tempo": ..., "beats": [...]}).
func LoadBeats(path string) (*model.BeatsData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read beats file: %w", err)
	}
	var beats model.BeatsData
	if err := json.Unmarshal(data, &beats); err != nil {
		return nil, fmt.Errorf("failed to parse beats file: %w", err)
	}
	return &beats, nil
}

// LoadLyricWords reads the lyrics alignment tool's JSON output
// ([{"word": ..., "start": ..., "end": ...}]).
func LoadLyricWords(path string) ([]model.LyricWord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics timing file: %w", err)
	}
	var words []model.LyricWord
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("failed to parse lyrics timing file: %w", err)
	}
	return words, nil
}
