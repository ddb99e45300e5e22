package tree

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// FromForest writes a delegation forest as a script, one declaration per
// participant followed by its delegation edges.
func FromForest(forest []*invoice.Node) string {
	var sb strings.Builder

	sb.WriteString("flowchart TD\n")

	declared := make(map[int64]bool)

	var walk func(n *invoice.Node)
	walk = func(n *invoice.Node) {
		if !declared[n.ID] {
			declared[n.ID] = true
			fmt.Fprintf(&sb, "%s[%s]\n", nodeID(n.ID), label(n))
		}

		for _, child := range n.GivenTo {
			if child == nil {
				continue
			}

			walk(child)
			fmt.Fprintf(&sb, "%s --> %s\n", nodeID(n.ID), nodeID(child.ID))
		}
	}

	for _, root := range forest {
		if root != nil {
			walk(root)
		}
	}

	return sb.String()
}

func nodeID(id int64) string {
	if id < 0 {
		return fmt.Sprintf("n_%d", -id)
	}

	return fmt.Sprintf("n%d", id)
}

func label(n *invoice.Node) string {
	return strings.NewReplacer("[", "(", "]", ")", "-->", "->").Replace(n.Describe())
}
