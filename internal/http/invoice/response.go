package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type templateResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type expenseResponse struct {
	ID       uuid.UUID       `json:"id"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Duration decimal.Decimal `json:"duration"`
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

type lineItemResponse struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Thru       []string          `json:"thru"`
	RateMode   invoice.RateMode  `json:"rate_mode"`
	Duration   decimal.Decimal   `json:"duration"`
	RateAmount decimal.Decimal   `json:"rate_amount"`
	Currency   string            `json:"currency"`
	Total      decimal.Decimal   `json:"total"`
	Expenses   []expenseResponse `json:"expenses"`
	Draft      *expenseResponse  `json:"draft,omitempty"`
}

type totalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	Tax        decimal.Decimal `json:"tax"`
	Grand      decimal.Decimal `json:"grand"`
}

type invoiceResponse struct {
	TemplateID  *int64             `json:"template_id,omitempty"`
	Company     invoice.Party      `json:"company"`
	Client      invoice.Party      `json:"client"`
	InvoiceDate string             `json:"invoice_date"`
	DueDate     string             `json:"due_date"`
	Notice      string             `json:"notice,omitempty"`
	Items       []lineItemResponse `json:"items"`
	Totals      totalsResponse     `json:"totals"`
}

func toExpenseResponse(e invoice.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID,
		Label:    e.Label,
		Amount:   e.Amount,
		Duration: e.Duration,
		Currency: e.Currency,
		Total:    e.Total(),
	}
}

func toResponse(sheet *invoice.Sheet) invoiceResponse {
	dates := sheet.Dates()
	totals := sheet.Totals()

	resp := invoiceResponse{
		TemplateID:  sheet.TemplateID,
		Company:     sheet.Company,
		Client:      sheet.Client,
		InvoiceDate: dates.Invoice,
		DueDate:     dates.Due,
		Notice:      sheet.Notice,
		Items:       make([]lineItemResponse, 0),
		Totals: totalsResponse{
			Subtotal:   totals.Subtotal,
			TaxPercent: totals.TaxPercent,
			Tax:        totals.Tax,
			Grand:      totals.Grand,
		},
	}

	listed := make(map[int64]bool)

	for _, li := range sheet.Items() {
		item := lineItemResponse{
			ID:         li.ID,
			Name:       li.Name,
			Address:    li.Address,
			Thru:       li.Thru,
			RateMode:   li.RateMode,
			Duration:   li.Duration,
			RateAmount: li.RateAmount,
			Currency:   li.Currency,
			Total:      li.Total,
			Expenses:   make([]expenseResponse, 0),
		}

		if item.Thru == nil {
			item.Thru = []string{}
		}

		if !listed[li.ID] {
			listed[li.ID] = true

			for _, e := range sheet.Saved(li.ID) {
				item.Expenses = append(item.Expenses, toExpenseResponse(e))
			}

			if draft := sheet.Draft(li.ID); !draft.IsBlank() {
				item.Draft = new(toExpenseResponse(draft))
			}
		}

		resp.Items = append(resp.Items, item)
	}

	return resp
}

func toTemplateResponseList(templates []invoice.Template) []templateResponse {
	resp := make([]templateResponse, len(templates))
	for i, t := range templates {
		resp[i] = templateResponse{ID: t.ID, Name: t.Name}
	}

	return resp
}
