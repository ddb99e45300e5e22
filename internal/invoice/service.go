package invoice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	GetPayload(ctx context.Context, templateID int64) (*Payload, error)
	SaveTemplate(ctx context.Context, t Template, p *Payload) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Overrides are edits applied on top of a freshly flattened payload.
// Expenses are committed in order; Drafts stay uncommitted.
type Overrides struct {
	TaxPercent *decimal.Decimal
	Durations  map[int64]decimal.Decimal
	Expenses   map[int64][]Expense
	Drafts     map[int64]Expense
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *Service) Payload(ctx context.Context, templateID int64) (*Payload, error) {
	return s.repo.GetPayload(ctx, templateID)
}

func (s *Service) SaveTemplate(ctx context.Context, t Template, p *Payload) error {
	if p.TemplateID == nil {
		p.TemplateID = &t.ID
	}

	return s.repo.SaveTemplate(ctx, t, p)
}

// Open fetches a template's payload and starts a sheet for it.
func (s *Service) Open(ctx context.Context, templateID int64) (*Sheet, error) {
	p, err := s.repo.GetPayload(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("get payload: %w", err)
	}

	if p.TemplateID == nil {
		p.TemplateID = &templateID
	}

	return NewSheet(p), nil
}

// Preview builds a sheet from a payload and replays the overrides on it.
// The returned sheet is back in view mode.
func (s *Service) Preview(p *Payload, o Overrides) (*Sheet, error) {
	sheet := NewSheet(p)
	sheet.Edit()

	if o.TaxPercent != nil {
		if err := sheet.SetTaxPercent(*o.TaxPercent); err != nil {
			return nil, err
		}
	}

	if _, err := sheet.ApplyDurations(o.Durations); err != nil {
		return nil, err
	}

	for id, expenses := range o.Expenses {
		for _, e := range expenses {
			if err := sheet.SetDraft(id, e); err != nil {
				return nil, fmt.Errorf("expense: %w", err)
			}

			if err := sheet.CommitDraft(id); err != nil {
				return nil, fmt.Errorf("expense: %w", err)
			}
		}
	}

	for id, e := range o.Drafts {
		if err := sheet.SetDraft(id, e); err != nil {
			return nil, fmt.Errorf("draft: %w", err)
		}
	}

	if err := sheet.Save(); err != nil {
		return nil, err
	}

	return sheet, nil
}
