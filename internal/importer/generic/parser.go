// Package generic reads the plain five column statement export used by most
// US retail banks: Date, Description, Withdrawals, Deposits, Balance.
package generic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/cashflow/internal/encoding"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const (
	colDate = iota
	colDescription
	colWithdrawal
	colDeposit
	colBalance
	numCols
)

const openingBalance = "BEGINNING BALANCE"

// Parser reads the generic layout. Account labels every emitted row.
type Parser struct {
	Account string
}

func NewParser(account string) *Parser {
	return &Parser{Account: account}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.RawRecord, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	var recs []transaction.RawRecord

	// The first row is the header.
	for _, row := range rows[1:] {
		rec, ok := p.parseRow(row)
		if ok {
			recs = append(recs, rec)
		}
	}

	return recs, nil
}

func (p *Parser) parseRow(row []string) (transaction.RawRecord, bool) {
	if len(row) < numCols {
		return transaction.RawRecord{}, false
	}

	cell := func(i int) string { return strings.TrimSpace(row[i]) }

	desc := cell(colDescription)
	if strings.Contains(desc, openingBalance) {
		return transaction.RawRecord{}, false
	}

	rec := transaction.RawRecord{
		Date:        isoDate(cell(colDate)),
		Description: desc,
		Account:     p.Account,
		Balance:     cell(colBalance),
	}

	switch {
	case cell(colWithdrawal) != "":
		rec.Debit = cell(colWithdrawal)
		if isZero(rec.Debit) {
			return transaction.RawRecord{}, false
		}
	case cell(colDeposit) != "":
		rec.Credit = cell(colDeposit)
		if isZero(rec.Credit) {
			return transaction.RawRecord{}, false
		}
	default:
		return transaction.RawRecord{}, false
	}

	return rec, true
}

// isoDate rewrites MM/dd/yy as yyyy-MM-dd. Other layouts pass through for the
// normalizer to interpret.
func isoDate(s string) string {
	t, err := time.Parse("01/02/06", s)
	if err != nil {
		return s
	}

	return t.Format(time.DateOnly)
}

func isZero(s string) bool {
	d, err := transaction.ParseAmount(s)
	return err != nil || d.IsZero()
}
