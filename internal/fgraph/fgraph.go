// Package fgraph builds FFmpeg filter_complex graphs as labeled nodes and
// serializes them with pad-uniqueness and single-consumer enforcement, so
// graph construction bugs surface as compile errors instead of opaque
// ffmpeg failures.
package fgraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one filter statement: zero or more input pads, the filter op
// text, and zero or more output pads.
type Node struct {
	Inputs  []string
	Op      string
	Outputs []string
}

// Graph is an ordered list of filter nodes.
type Graph struct {
	nodes []Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Add appends a node. inputs may be nil for source filters (color,
// anullsrc). Stream pads like "0:v" refer to ffmpeg inputs and are exempt
// from the produced-before-consumed rule.
func (g *Graph) Add(op string, inputs []string, outputs ...string) {
	g.nodes = append(g.nodes, Node{Inputs: inputs, Op: op, Outputs: outputs})
}

// Len returns the number of nodes added so far.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Lines serializes each node as "[in][in2]op[out]".
func (g *Graph) Lines() []string {
	lines := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		var b strings.Builder
		for _, in := range n.Inputs {
			b.WriteString("[" + in + "]")
		}
		b.WriteString(n.Op)
		for _, out := range n.Outputs {
			b.WriteString("[" + out + "]")
		}
		lines = append(lines, b.String())
	}
	return lines
}

// isStreamPad reports whether a pad references an ffmpeg input stream
// (e.g. "0:v", "2:a") rather than a labeled filter output.
func isStreamPad(pad string) bool {
	i := strings.IndexByte(pad, ':')
	if i <= 0 {
		return false
	}
	_, err := strconv.Atoi(pad[:i])
	return err == nil
}

// Validate enforces the two graph invariants: every labeled pad is
// produced exactly once, and every labeled pad is consumed at most once
// and only after it was produced. Split is the only sanctioned way to
// consume a pad twice.
func (g *Graph) Validate() error {
	produced := make(map[string]int)
	consumed := make(map[string]int)

	for _, n := range g.nodes {
		for _, in := range n.Inputs {
			if isStreamPad(in) {
				continue
			}
			if _, ok := produced[in]; !ok {
				return fmt.Errorf("pad [%s] consumed by %q before any node produced it", in, n.Op)
			}
			if consumed[in] > 0 {
				return fmt.Errorf("pad [%s] consumed twice (second consumer %q); use split", in, n.Op)
			}
			consumed[in]++
		}
		for _, out := range n.Outputs {
			if produced[out] > 0 {
				return fmt.Errorf("duplicate pad [%s] produced by %q", out, n.Op)
			}
			produced[out]++
		}
	}
	return nil
}

// String validates and serializes the graph as a semicolon-joined
// filter_complex value.
func (g *Graph) String() (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	return strings.Join(g.Lines(), ";"), nil
}

// Num formats a number with minimal digits. Used for trim bounds, setpts
// offsets and enable windows, where "3" beats "3.0000".
func Num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Secs formats a time expression at fixed 4-decimal precision.
func Secs(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// Param formats a filter parameter at fixed 6-decimal precision.
func Param(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
