package cgd

import "strings"

type amountLayout int

const (
	// signedColumn holds one column such as "Montante" with "-10,00".
	signedColumn amountLayout = iota
	// debitCredit splits outflows and inflows into "Débito" and "Crédito".
	debitCredit
)

// Profile is the column layout of one CGD export. Each layout maps to a
// single account, since CGD exports never mix card and current account rows.
type Profile struct {
	Name    string
	Account string
	Date    string
	Desc    string
	Layout  amountLayout
	Amount  string // signedColumn
	Debit   string // debitCredit
	Credit  string // debitCredit
	Balance string
}

var profiles = []Profile{
	{
		Name:    "cartão",
		Account: "Credit",
		Date:    "Data",
		Desc:    "Descrição",
		Layout:  debitCredit,
		Debit:   "Débito",
		Credit:  "Crédito",
	},
	{
		Name:    "extrato",
		Account: "Checking",
		Date:    "Data mov.",
		Desc:    "Descrição",
		Amount:  "Movimento",
		Balance: "Saldo contabilístico após movimento",
	},
	{
		Name:    "conta",
		Account: "Checking",
		Date:    "Data mov.",
		Desc:    "Descrição",
		Amount:  "Montante",
		Balance: "Saldo contabilístico após movimento",
	},
}

func (p Profile) required() []string {
	if p.Layout == debitCredit {
		return []string{p.Date, p.Desc, p.Debit, p.Credit}
	}

	return []string{p.Date, p.Desc, p.Amount}
}

func (p Profile) matches(cols colIndex) bool {
	for _, name := range p.required() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

type colIndex map[string]int

func indexHeader(row []string) colIndex {
	cols := make(colIndex, len(row))

	for i, cell := range row {
		if name := strings.TrimSpace(cell); name != "" {
			cols[name] = i
		}
	}

	return cols
}

// lookup returns -1 for an absent or unnamed column.
func (c colIndex) lookup(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

// detect finds the first row that is a header of a known layout. Exports
// start with a preamble of account details, so the header can sit anywhere.
func detect(rows [][]string) (Profile, colIndex, int, bool) {
	for n, row := range rows {
		cols := indexHeader(row)

		for _, p := range profiles {
			if p.matches(cols) {
				return p, cols, n, true
			}
		}
	}

	return Profile{}, nil, 0, false
}
