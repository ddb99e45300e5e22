// Package tree turns a flowchart script describing a template hierarchy into
// positioned nodes and edges for display.
//
// A script is line oriented:
//
//	flowchart TD
//	%% comment
//	A[Acme, Madurai] --> B[Mid, Chennai] --> C[Leaf]
//	D
//
// Node IDs are letters, digits, '_' and '-'. The first non-empty label given
// to an ID wins; a node without one is labelled with its ID.
package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	ColumnGap = 220
	RowGap    = 120
)

var ErrCycle = errors.New("tree contains a cycle")

type Node struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Depth  int    `json:"depth"`
	Column int    `json:"column"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// SyntaxError reports a line that is not a node declaration, an edge chain,
// a comment or a header.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: cannot parse %q", e.Line, e.Text)
}

var nodeRe = regexp.MustCompile(`^([A-Za-z0-9_-]+)(?:\[([^\]]*)\])?$`)

// Parse reads a script and lays it out. Depth is the longest path from any
// root; nodes sharing a depth get consecutive columns in topological order.
func Parse(r io.Reader) (*Graph, error) {
	b := newBuilder()

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%%") || isHeader(line) {
			continue
		}

		if err := b.addLine(line); err != nil {
			return nil, &SyntaxError{Line: n, Text: line}
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}

	return b.layout()
}

func isHeader(line string) bool {
	word, _, _ := strings.Cut(line, " ")
	return word == "graph" || word == "flowchart"
}

type builder struct {
	ids      []string
	labels   []string
	index    map[string]int
	outgoing [][]int
	seen     map[[2]int]bool
}

func newBuilder() *builder {
	return &builder{
		index: make(map[string]int),
		seen:  make(map[[2]int]bool),
	}
}

func (b *builder) addLine(line string) error {
	prev := -1

	for _, seg := range strings.Split(line, "-->") {
		m := nodeRe.FindStringSubmatch(strings.TrimSpace(seg))
		if m == nil {
			return errors.New("malformed")
		}

		cur := b.node(m[1], strings.TrimSpace(m[2]))

		if prev >= 0 && !b.seen[[2]int{prev, cur}] {
			b.seen[[2]int{prev, cur}] = true
			b.outgoing[prev] = append(b.outgoing[prev], cur)
		}

		prev = cur
	}

	return nil
}

func (b *builder) node(id, label string) int {
	i, ok := b.index[id]
	if !ok {
		i = len(b.ids)
		b.index[id] = i
		b.ids = append(b.ids, id)
		b.labels = append(b.labels, "")
		b.outgoing = append(b.outgoing, nil)
	}

	if b.labels[i] == "" {
		b.labels[i] = label
	}

	return i
}

func (b *builder) layout() (*Graph, error) {
	order := topoOrder(b.outgoing)
	if len(order) != len(b.ids) {
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(b.cyclePath(), " --> "))
	}

	depth := make([]int, len(b.ids))
	for _, n := range order {
		for _, m := range b.outgoing[n] {
			depth[m] = max(depth[m], depth[n]+1)
		}
	}

	g := &Graph{Nodes: make([]Node, len(b.ids))}
	columns := make(map[int]int)

	for _, n := range order {
		col := columns[depth[n]]
		columns[depth[n]]++

		label := b.labels[n]
		if label == "" {
			label = b.ids[n]
		}

		g.Nodes[n] = Node{
			ID:     b.ids[n],
			Label:  label,
			Depth:  depth[n],
			Column: col,
			X:      col * ColumnGap,
			Y:      depth[n] * RowGap,
		}
	}

	for from, tos := range b.outgoing {
		for _, to := range tos {
			g.Edges = append(g.Edges, Edge{From: b.ids[from], To: b.ids[to]})
		}
	}

	return g, nil
}
