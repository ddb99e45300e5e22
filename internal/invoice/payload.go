package invoice

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/textenc"
)

// Payload is the invoice document served for a template: the parties, the
// dates and the delegation forest of the work being billed.
type Payload struct {
	Company      Party            `json:"company"`
	Client       Party            `json:"client"`
	InvoiceDate  string           `json:"invoice_date"`
	DueDate      string           `json:"due_date"`
	InvoiceItems []*Node          `json:"invoice_items"`
	Notice       string           `json:"notice,omitempty"`
	TemplateID   *int64           `json:"template_id,omitempty"`
	TaxPercent   *decimal.Decimal `json:"tax_percent,omitempty"`
}

// DecodePayload reads a JSON payload in any of the encodings textenc
// recognises.
func DecodePayload(r io.Reader) (*Payload, error) {
	utf8r, _, err := textenc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	var p Payload
	if err := json.NewDecoder(utf8r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	return &p, nil
}
