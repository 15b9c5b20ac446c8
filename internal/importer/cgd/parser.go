package cgd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/cashflow/internal/encoding"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// Parser reads CGD bank CSV exports and produces raw records.
// It auto-detects which CGD format (conta, extrato, cartão) is being used
// by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.RawRecord, error) {
	utf8r, err := enc.NewUTF8Reader(r)
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

	profile, cols, header, ok := detect(rows)
	if !ok {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	return parseRows(profile, cols, rows[header+1:], header+1)
}

// parseRows reads the data rows under the header. header is the 0-based
// header position in the file and only feeds error messages.
func parseRows(p Profile, cols colIndex, rows [][]string, header int) ([]transaction.RawRecord, error) {
	dateIdx := cols[p.Date]
	descIdx := cols[p.Desc]

	var recs []transaction.RawRecord

	for i, row := range rows {
		rowNum := header + i + 2

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		rec := transaction.RawRecord{
			Date:        date.Format(time.DateOnly),
			Description: desc,
			Account:     p.Account,
		}

		if !p.fillAmount(cols, row, &rec) {
			continue
		}

		p.fillBalance(cols, row, &rec)

		recs = append(recs, rec)
	}

	return recs, nil
}

// parseDate tries to parse a date from the given cell index.
// Returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
