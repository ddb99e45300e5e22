package invoice

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/tree"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/templates", h.listTemplates)
	r.Get("/templates/{id}/invoice", h.getInvoice)
	r.Put("/templates/{id}/invoice", h.saveTemplate)
	r.Get("/templates/{id}/tree", h.getTree)
	r.Post("/trees", h.layoutTree)
	r.Post("/invoices/preview", h.preview)
	r.Post("/invoices/summary", h.summary)
}

type expenseRequest struct {
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Duration decimal.Decimal `json:"duration"`
}

func (e expenseRequest) toExpense() invoice.Expense {
	return invoice.Expense{Label: e.Label, Amount: e.Amount, Duration: e.Duration}
}

type previewRequest struct {
	Payload    invoice.Payload            `json:"payload"`
	TaxPercent *decimal.Decimal           `json:"tax_percent,omitempty"`
	Durations  map[int64]decimal.Decimal  `json:"durations,omitempty"`
	Expenses   map[int64][]expenseRequest `json:"expenses,omitempty"`
	Drafts     map[int64]expenseRequest   `json:"drafts,omitempty"`
}

func (req previewRequest) overrides() invoice.Overrides {
	o := invoice.Overrides{
		TaxPercent: req.TaxPercent,
		Durations:  req.Durations,
		Expenses:   make(map[int64][]invoice.Expense, len(req.Expenses)),
		Drafts:     make(map[int64]invoice.Expense, len(req.Drafts)),
	}

	for id, list := range req.Expenses {
		for _, e := range list {
			o.Expenses[id] = append(o.Expenses[id], e.toExpense())
		}
	}

	for id, e := range req.Drafts {
		o.Drafts[id] = e.toExpense()
	}

	return o
}

type saveTemplateRequest struct {
	Name    string           `json:"name"`
	Payload *invoice.Payload `json:"payload"`
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates(r.Context())
	if err != nil {
		slog.Error("failed to list templates", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toTemplateResponseList(templates))
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sheet, err := h.svc.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to open invoice", "template_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(sheet))
}

func (h *Handler) saveTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req saveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" || req.Payload == nil {
		http.Error(w, "name and payload are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.SaveTemplate(r.Context(), invoice.Template{ID: id, Name: req.Name}, req.Payload); err != nil {
		slog.Error("failed to save template", "template_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTree(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Payload(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to get payload", "template_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	g, err := tree.Parse(strings.NewReader(tree.FromForest(p.InvoiceItems)))
	if err != nil {
		slog.Error("failed to lay out template tree", "template_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) layoutTree(w http.ResponseWriter, r *http.Request) {
	g, err := tree.Parse(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		var syntaxErr *tree.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, tree.ErrCycle) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.previewSheet(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sheet))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.previewSheet(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := io.WriteString(w, export.Summary(sheet)); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}

func (h *Handler) previewSheet(w http.ResponseWriter, r *http.Request) (*invoice.Sheet, bool) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	sheet, err := h.svc.Preview(&req.Payload, req.overrides())
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}

		slog.Error("failed to preview invoice", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return nil, false
	}

	return sheet, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
