package invoice

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("invoice is not in edit mode")
)

// RateMode is the billing unit of a project assignment.
type RateMode string

const (
	RateHourly    RateMode = "Hourly"
	RateDaily     RateMode = "Daily"
	RateWeekly    RateMode = "Weekly"
	RateMonthly   RateMode = "Monthly"
	RateMilestone RateMode = "Milestone"
	RateFixed     RateMode = "Fixed"
)

// RateModes lists the known billing units in display order.
var RateModes = []RateMode{RateHourly, RateDaily, RateWeekly, RateMonthly, RateMilestone, RateFixed}

// Known reports whether m is one of the billing units above.
func (m RateMode) Known() bool {
	for _, k := range RateModes {
		if m == k {
			return true
		}
	}

	return false
}

// Party is the company or client printed on the invoice header.
type Party struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Project is the rate agreement attached to the participant doing the work.
type Project struct {
	RateMode   RateMode        `json:"rate_mode"`
	RateAmount decimal.Decimal `json:"rate_amount"`
	Currency   string          `json:"currency"`
}

// Node is one participant in a delegation tree. A participant either
// delegates work to the nodes in GivenTo or performs it under Project.
type Node struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	GivenTo []*Node  `json:"given_to,omitempty"`
	Project *Project `json:"project,omitempty"`
}

// IsLeaf reports whether the node performs billable work itself.
// A missing given_to list and an empty one are the same thing.
func (n *Node) IsLeaf() bool {
	return len(n.GivenTo) == 0
}

// Describe is the text used for the node in a thru chain.
func (n *Node) Describe() string {
	return n.Name + ", " + n.Address
}

// LineItem is one billable row of an invoice.
type LineItem struct {
	ID         int64
	Name       string
	Address    string
	Thru       []string
	RateMode   RateMode
	Duration   decimal.Decimal
	RateAmount decimal.Decimal
	Currency   string
	Total      decimal.Decimal
}

// BaseTotal is the rate multiplied by the duration, or the bare rate when
// no duration has been entered.
func (li LineItem) BaseTotal() decimal.Decimal {
	return scaled(li.RateAmount, li.Duration)
}

// Template is an invoice template the user can pick.
type Template struct {
	ID   int64
	Name string
}

func scaled(amount, duration decimal.Decimal) decimal.Decimal {
	if duration.IsPositive() {
		return amount.Mul(duration)
	}

	return amount
}
