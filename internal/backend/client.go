// Package backend reads invoice templates from the REST API that backs the
// browser dashboard.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Client implements invoice.Repository over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type templateDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type saveTemplateRequest struct {
	Name    string           `json:"name"`
	Payload *invoice.Payload `json:"payload"`
}

func (c *Client) ListTemplates(ctx context.Context) ([]invoice.Template, error) {
	var dtos []templateDTO
	if err := c.do(ctx, http.MethodGet, "/templates/", nil, &dtos); err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	templates := make([]invoice.Template, 0, len(dtos))
	for _, d := range dtos {
		templates = append(templates, invoice.Template{ID: d.ID, Name: d.Name})
	}

	return templates, nil
}

func (c *Client) GetPayload(ctx context.Context, templateID int64) (*invoice.Payload, error) {
	var p invoice.Payload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/templates/%d/invoice/", templateID), nil, &p); err != nil {
		return nil, fmt.Errorf("getting payload for template %d: %w", templateID, err)
	}

	return &p, nil
}

func (c *Client) SaveTemplate(ctx context.Context, t invoice.Template, p *invoice.Payload) error {
	body := saveTemplateRequest{Name: t.Name, Payload: p}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/templates/%d/invoice/", t.ID), body, nil); err != nil {
		return fmt.Errorf("saving template %d: %w", t.ID, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader

	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return invoice.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status code %d for %s %s", resp.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
