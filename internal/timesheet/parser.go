// Package timesheet imports per-item durations from `;`-separated CSV exports.
package timesheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/textenc"
)

var ErrNoHeader = errors.New("no timesheet header found: expected ID and Duração/Duration columns")

// Parser reads timesheet exports. Rows before the header (title, period, account blocks) are ignored.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the duration per line-item ID. Repeated IDs are summed.
func (p *Parser) Parse(r io.Reader) (map[int64]decimal.Decimal, error) {
	utf8r, _, err := textenc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrNoHeader
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a numeric ID (totals, footers). A row with an ID but a malformed
// duration is an error.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) (map[int64]decimal.Decimal, error) {
	idIdx := cols[p.IDCol]
	durIdx := cols[p.DurationCol]

	durations := make(map[int64]decimal.Decimal)

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		id, err := strconv.ParseInt(cellValue(row, idIdx), 10, 64)
		if err != nil {
			continue
		}

		raw := cellValue(row, durIdx)
		if raw == "" {
			continue
		}

		d, err := parseEuropeanDecimal(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid duration %q: %w", rowNum, raw, err)
		}

		if d.IsNegative() {
			return nil, fmt.Errorf("row %d: negative duration %s", rowNum, raw)
		}

		durations[id] = durations[id].Add(d)
	}

	return durations, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
