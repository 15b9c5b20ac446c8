package generic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashflow/internal/importer/generic"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const statement = `Date,Description,Withdrawals,Deposits,Balance
07/01/25,BEGINNING BALANCE,,,"$5,000.00"
07/01/25,ADROIT SERVICES PAYROLL,,"$2,500.00","$7,500.00"
07/02/25,DEBIT CARD PURCHASE STARBUCKS 1234,$(6.45),,"$7,493.55"
07/03/25,"RENT, JULY",$1200.00,,"$6,293.55"
07/04/25,ADJUSTMENT,$0.00,,"$6,293.55"
07/05/25,SHORT ROW
`

func TestParser_Parse(t *testing.T) {
	recs, err := generic.NewParser("Checking").Parse(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, transaction.RawRecord{
		Date:        "2025-07-01",
		Description: "ADROIT SERVICES PAYROLL",
		Account:     "Checking",
		Credit:      "$2,500.00",
		Balance:     "$7,500.00",
	}, recs[0])

	assert.Equal(t, "2025-07-02", recs[1].Date)
	assert.Equal(t, "$(6.45)", recs[1].Debit)
	assert.Equal(t, "RENT, JULY", recs[2].Description)
}

func TestParser_Normalized(t *testing.T) {
	recs, err := generic.NewParser("Checking").Parse(strings.NewReader(statement))
	require.NoError(t, err)

	txs := transaction.NewNormalizer("").NormalizeAll(recs)
	require.Len(t, txs, 3)

	type want struct {
		amount    int64
		direction transaction.Direction
		balance   int64
	}

	wants := []want{
		{250000, transaction.DirectionInflow, 750000},
		{645, transaction.DirectionOutflow, 749355},
		{120000, transaction.DirectionOutflow, 629355},
	}

	for i, w := range wants {
		assert.Equal(t, w.amount, txs[i].Amount, i)
		assert.Equal(t, w.direction, txs[i].Direction, i)
		require.NotNil(t, txs[i].Balance, i)
		assert.Equal(t, w.balance, *txs[i].Balance, i)
	}
}

func TestParser_Empty(t *testing.T) {
	recs, err := generic.NewParser("").Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParser_HeaderOnly(t *testing.T) {
	recs, err := generic.NewParser("").Parse(strings.NewReader("Date,Description,Withdrawals,Deposits,Balance\n"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}
