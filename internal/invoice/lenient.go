package invoice

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UnmarshalJSON reads a delegation node the way the upstream API produces
// it. Fields of the wrong type fall back to their zero value instead of
// failing the whole payload.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      json.RawMessage `json:"id"`
		Name    json.RawMessage `json:"name"`
		Address json.RawMessage `json:"address"`
		GivenTo json.RawMessage `json:"given_to"`
		Project json.RawMessage `json:"project"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		*n = Node{}
		return nil
	}

	*n = Node{
		ID:      lenientInt(raw.ID),
		Name:    lenientString(raw.Name),
		Address: lenientString(raw.Address),
	}

	if isObjectOrArray(raw.GivenTo, '[') {
		var children []*Node
		if err := json.Unmarshal(raw.GivenTo, &children); err == nil {
			n.GivenTo = children
		}
	}

	if isObjectOrArray(raw.Project, '{') {
		var p Project
		if err := json.Unmarshal(raw.Project, &p); err == nil {
			n.Project = &p
		}
	}

	return nil
}

// UnmarshalJSON accepts the rate amount as a number or a numeric string.
// Anything else is a zero rate.
func (p *Project) UnmarshalJSON(data []byte) error {
	var raw struct {
		RateMode   json.RawMessage `json:"rate_mode"`
		RateAmount json.RawMessage `json:"rate_amount"`
		Currency   json.RawMessage `json:"currency"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		*p = Project{}
		return nil
	}

	*p = Project{
		RateMode:   RateMode(lenientString(raw.RateMode)),
		RateAmount: lenientDecimal(raw.RateAmount),
		Currency:   lenientString(raw.Currency),
	}

	return nil
}

func isObjectOrArray(raw json.RawMessage, open byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == open
}

func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}

func lenientDecimal(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero
	}

	if raw[0] == '"' {
		return ParseNumber(lenientString(raw))
	}

	return ParseNumber(string(raw))
}

func lenientInt(raw json.RawMessage) int64 {
	return lenientDecimal(raw).IntPart()
}
