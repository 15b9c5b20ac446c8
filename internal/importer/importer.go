package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

type Bank string

const (
	BankCGD     Bank = "cgd"
	BankGeneric Bank = "generic"
)

var ErrUnknownBank = errors.New("unknown bank")

// Importer turns one bank export into raw records. Parsers only tokenize;
// normalization happens in the transaction package.
type Importer interface {
	Parse(r io.Reader) ([]transaction.RawRecord, error)
}
