package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mode gates whether a sheet accepts edits.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}

	return "view"
}

// DisplayDateLayout is how invoice dates are shown outside edit mode.
const DisplayDateLayout = "02-01-2006"

var dateLayouts = []string{
	time.DateOnly,
	DisplayDateLayout,
	"02/01/2006",
	"2 Jan 2006",
	time.RFC3339,
}

// Dates are the invoice and due dates of a sheet.
type Dates struct {
	Invoice string
	Due     string
}

// Sheet is the working state of one rendered invoice: its line items, the
// expenses attached to each item and the tax rate. Every mutation
// recomputes the totals from scratch. A Sheet is not safe for concurrent use.
type Sheet struct {
	Company    Party
	Client     Party
	Notice     string
	TemplateID *int64

	items  []LineItem
	index  map[int64]int
	saved  map[int64][]Expense
	drafts map[int64]Expense

	taxPercent decimal.Decimal
	mode       Mode
	dates      Dates
	editDates  Dates
	totals     Totals
}

// NewSheet flattens the payload's delegation forest and starts a sheet in
// view mode.
func NewSheet(p *Payload) *Sheet {
	s := &Sheet{
		Company:    p.Company,
		Client:     p.Client,
		Notice:     p.Notice,
		TemplateID: p.TemplateID,
		items:      Flatten(p.InvoiceItems),
		saved:      make(map[int64][]Expense),
		drafts:     make(map[int64]Expense),
		taxPercent: DefaultTaxPercent,
		mode:       ModeView,
		dates: Dates{
			Invoice: displayDate(p.InvoiceDate),
			Due:     displayDate(p.DueDate),
		},
	}

	if p.TaxPercent != nil {
		s.taxPercent = *p.TaxPercent
	}

	s.index = make(map[int64]int, len(s.items))
	for i, li := range s.items {
		if _, dup := s.index[li.ID]; !dup {
			s.index[li.ID] = i
		}

		s.drafts[li.ID] = Expense{Currency: li.Currency}
	}

	s.Recompute()

	return s
}

// Recompute derives all totals from the current state and stores them on
// the sheet and its items.
func (s *Sheet) Recompute() Totals {
	s.totals = Compute(s.items, s.saved, s.drafts, s.taxPercent)
	for i := range s.items {
		s.items[i].Total = s.totals.Rows[i]
	}

	return s.totals
}

func (s *Sheet) Mode() Mode                  { return s.mode }
func (s *Sheet) Totals() Totals              { return s.totals }
func (s *Sheet) TaxPercent() decimal.Decimal { return s.taxPercent }
func (s *Sheet) Dates() Dates                { return s.dates }

// EditDates returns the ISO copies being edited. They are only meaningful in
// edit mode.
func (s *Sheet) EditDates() Dates { return s.editDates }

// Items returns a copy of the line items with their current totals.
func (s *Sheet) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)

	return out
}

// Saved returns a copy of the committed expenses of an item.
func (s *Sheet) Saved(itemID int64) []Expense {
	out := make([]Expense, len(s.saved[itemID]))
	copy(out, s.saved[itemID])

	return out
}

// Draft returns the uncommitted expense of an item.
func (s *Sheet) Draft(itemID int64) Expense {
	return s.drafts[itemID]
}

// Edit switches to edit mode. The dates are copied into ISO form for
// editing and the tax rate is derived from the current totals. A sheet
// already in edit mode keeps its pending edits.
func (s *Sheet) Edit() {
	if s.mode == ModeEdit {
		return
	}

	s.editDates = Dates{
		Invoice: isoDate(s.dates.Invoice),
		Due:     isoDate(s.dates.Due),
	}
	s.taxPercent = DeriveTaxPercent(s.totals.Subtotal, s.totals.Tax)
	s.mode = ModeEdit
	s.Recompute()
}

// Save leaves edit mode and writes the edited dates back in display form.
// An edited date that does not parse leaves the displayed one unchanged.
// Nothing is persisted.
func (s *Sheet) Save() error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}

	if d, ok := parseDate(s.editDates.Invoice); ok {
		s.dates.Invoice = d.Format(DisplayDateLayout)
	}

	if d, ok := parseDate(s.editDates.Due); ok {
		s.dates.Due = d.Format(DisplayDateLayout)
	}

	s.mode = ModeView

	return nil
}

// SetDates replaces the ISO date copies being edited.
func (s *Sheet) SetDates(d Dates) error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}

	s.editDates = d

	return nil
}

// SetTaxPercent changes the tax rate.
func (s *Sheet) SetTaxPercent(p decimal.Decimal) error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}

	s.taxPercent = p
	s.Recompute()

	return nil
}

// SetDuration changes how many rate units an item bills. Every row of the
// item takes the new duration.
func (s *Sheet) SetDuration(itemID int64, d decimal.Decimal) error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}

	if _, err := s.lookup(itemID); err != nil {
		return err
	}

	s.setDuration(itemID, d)
	s.Recompute()

	return nil
}

// SetDurationText is SetDuration for raw user input; non-numeric text
// counts as zero.
func (s *Sheet) SetDurationText(itemID int64, text string) error {
	return s.SetDuration(itemID, ParseNumber(text))
}

// ApplyDurations sets the duration of every listed item that is on the
// sheet and returns how many were applied.
func (s *Sheet) ApplyDurations(durations map[int64]decimal.Decimal) (int, error) {
	if s.mode != ModeEdit {
		return 0, ErrReadOnly
	}

	applied := 0

	for id, d := range durations {
		if _, ok := s.index[id]; !ok {
			continue
		}

		s.setDuration(id, d)
		applied++
	}

	s.Recompute()

	return applied, nil
}

// SetDraft replaces the uncommitted expense of an item. The currency always
// follows the item.
func (s *Sheet) SetDraft(itemID int64, e Expense) error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}

	i, err := s.lookup(itemID)
	if err != nil {
		return err
	}

	e.ID = uuid.Nil
	e.Currency = s.items[i].Currency
	s.drafts[itemID] = e
	s.Recompute()

	return nil
}

// CommitDraft moves the draft of an item into its saved expenses and starts
// a new blank draft. A blank draft is left where it is.
func (s *Sheet) CommitDraft(itemID int64) error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}

	i, err := s.lookup(itemID)
	if err != nil {
		return err
	}

	draft := s.drafts[itemID]
	if draft.IsBlank() {
		return nil
	}

	draft.ID = uuid.New()
	s.saved[itemID] = append(s.saved[itemID], draft)
	s.drafts[itemID] = Expense{Currency: s.items[i].Currency}
	s.Recompute()

	return nil
}

// RemoveExpense deletes the saved expense shown at position pos. Positions
// past the saved expenses address the draft, which cannot be removed.
func (s *Sheet) RemoveExpense(itemID int64, pos int) error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}

	if _, err := s.lookup(itemID); err != nil {
		return err
	}

	saved := s.saved[itemID]
	if pos < 0 || pos >= len(saved) {
		return nil
	}

	s.saved[itemID] = append(saved[:pos:pos], saved[pos+1:]...)
	s.Recompute()

	return nil
}

func (s *Sheet) setDuration(itemID int64, d decimal.Decimal) {
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Duration = d
		}
	}
}

func (s *Sheet) lookup(itemID int64) (int, error) {
	i, ok := s.index[itemID]
	if !ok {
		return 0, fmt.Errorf("line item %d: %w", itemID, ErrNotFound)
	}

	return i, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func displayDate(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format(DisplayDateLayout)
	}

	return s
}

func isoDate(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format(time.DateOnly)
	}

	return s
}
