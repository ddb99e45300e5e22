package invoice

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Flatten walks every delegation tree in the forest depth-first and returns
// one line item per leaf, in traversal order.
//
// Each row's Thru lists the delegators between the root and the leaf, the
// root first and the immediate delegator last.
func Flatten(forest []*Node) []LineItem {
	var items []LineItem

	for _, root := range forest {
		items = flattenNode(root, nil, items)
	}

	return items
}

func flattenNode(n *Node, thru []string, out []LineItem) []LineItem {
	if n == nil {
		return out
	}

	if !n.IsLeaf() {
		// Clip so siblings never share the backing array.
		next := append(slices.Clip(thru), n.Describe())
		for _, child := range n.GivenTo {
			out = flattenNode(child, next, out)
		}

		return out
	}

	item := LineItem{
		ID:       n.ID,
		Name:     n.Name,
		Address:  n.Address,
		Thru:     make([]string, len(thru)),
		Duration: decimal.Zero,
		Total:    decimal.Zero,
	}
	copy(item.Thru, thru)

	if n.Project != nil {
		item.RateMode = n.Project.RateMode
		item.RateAmount = n.Project.RateAmount
		item.Currency = n.Project.Currency
	}

	return append(out, item)
}
