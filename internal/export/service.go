package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Service writes invoice summaries to disk.
type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// WriteSummary stores the summary of the sheet in dir and returns the file path.
func (s *Service) WriteSummary(dir string, sheet *invoice.Sheet) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, s.filename(sheet))

	if err := os.WriteFile(path, []byte(Summary(sheet)), 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// filename is YYYYMMDD_Client.txt, dated by the invoice date when it parses.
func (s *Service) filename(sheet *invoice.Sheet) string {
	date := s.now()
	if t, err := time.Parse(invoice.DisplayDateLayout, sheet.Dates().Invoice); err == nil {
		date = t
	}

	name := sheet.Client.Name
	if name == "" {
		name = "invoice"
	}

	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, name)

	return fmt.Sprintf("%s_%s.txt", date.Format("20060102"), safe)
}

// Summary renders a plain-text body suitable for an e-mail: one line per
// item, its expenses indented beneath it, then the totals.
func Summary(sheet *invoice.Sheet) string {
	var sb strings.Builder

	d := sheet.Dates()
	fmt.Fprintf(&sb, "Invoice %s → %s | %s to %s\n", d.Invoice, d.Due, sheet.Company.Name, sheet.Client.Name)

	listed := make(map[int64]bool)

	for _, li := range sheet.Items() {
		thru := "-"
		if len(li.Thru) > 0 {
			thru = strings.Join(li.Thru, " → ")
		}

		fmt.Fprintf(&sb, "* %s, %s | %s | %s | %s × %s | %s %s\n",
			li.Name, li.Address, thru, modeLabel(li.RateMode),
			li.Duration.String(), invoice.Format(li.RateAmount),
			invoice.Format(li.Total), li.Currency)

		if listed[li.ID] {
			continue
		}

		listed[li.ID] = true

		for _, e := range sheet.Saved(li.ID) {
			writeExpense(&sb, e)
		}

		if draft := sheet.Draft(li.ID); !draft.IsBlank() {
			writeExpense(&sb, draft)
		}
	}

	t := sheet.Totals()
	cur := currency(sheet.Items())

	fmt.Fprintf(&sb, "Subtotal: %s%s\n", invoice.Format(t.Subtotal), cur)
	fmt.Fprintf(&sb, "Tax (%s%%): %s%s\n", t.TaxPercent.String(), invoice.Format(t.Tax), cur)
	fmt.Fprintf(&sb, "Total: %s%s\n", invoice.Format(t.Grand), cur)

	if sheet.Notice != "" {
		fmt.Fprintf(&sb, "\n%s\n", sheet.Notice)
	}

	return sb.String()
}

func writeExpense(sb *strings.Builder, e invoice.Expense) {
	label := e.Label
	if label == "" {
		label = "Expense"
	}

	fmt.Fprintf(sb, "    - %s | %s × %s | %s %s\n",
		label, e.Duration.String(), invoice.Format(e.Amount), invoice.Format(e.Total()), e.Currency)
}

func modeLabel(m invoice.RateMode) string {
	if m == "" {
		return "-"
	}

	return string(m)
}

// currency returns " CUR" when every item bills in the same currency.
func currency(items []invoice.LineItem) string {
	if len(items) == 0 {
		return ""
	}

	cur := items[0].Currency
	for _, li := range items[1:] {
		if li.Currency != cur {
			return ""
		}
	}

	if cur == "" {
		return ""
	}

	return " " + cur
}
