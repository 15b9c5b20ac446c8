package cgd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/cashflow/internal/importer/cgd"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

func TestParser_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Dados da consulta
Intervalo de;01-01-2026 a 31-01-2026

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	recs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, transaction.RawRecord{
		Date:        "2026-01-30",
		Description: "INSTITUTO GESTAO FINA",
		Account:     "Checking",
		Amount:      "-588.74",
		Balance:     "48825.46",
	}, recs[0])

	assert.Equal(t, "2026-01-09", recs[1].Date)
	assert.Equal(t, "TFI Wise", recs[1].Description)
	assert.Equal(t, "8608.52", recs[1].Amount)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Conta ;0829015676030 - EUR - Conta Extracto
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	recs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "2026-02-13", recs[0].Date)
	assert.Equal(t, "PAGAMENTO TSU", recs[0].Description)
	assert.Equal(t, "-608.13", recs[0].Amount)
	assert.Equal(t, "41393.66", recs[0].Balance)

	assert.Equal(t, "2026-02-04", recs[1].Date)
	assert.Equal(t, "4324.06", recs[1].Amount)
}

func TestParser_Cartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito
Desde ;15/12/2025

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
 ; ; ; ;Página 1/2 ;
`

	recs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, transaction.RawRecord{
		Date:        "2025-12-16",
		Description: "PA GONDOMAR         GONDOMAR",
		Account:     "Credit",
		Debit:       "64.00",
	}, recs[0])

	assert.Equal(t, "2025-12-31", recs[1].Date)
	assert.Equal(t, "47.91", recs[1].Debit)
	assert.Empty(t, recs[1].Credit)
}

func TestParser_CartaoCredit(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
`

	recs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Empty(t, recs[0].Debit)
	assert.Equal(t, "25.00", recs[0].Credit)

	tx := transaction.NewNormalizer("").Normalize(recs[0])
	assert.Equal(t, int64(2500), tx.Amount)
	assert.Equal(t, transaction.DirectionInflow, tx.Direction)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	encoder := charmap.Windows1252.NewEncoder()
	latin1Bytes, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	recs, err := cgd.NewParser().Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "CAFÉ CENTRAL", recs[0].Description)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-10,00;TEST_ORDER;30-01-2026;XXX
`

	recs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "TEST_ORDER", recs[0].Description)
	assert.Equal(t, "-10.00", recs[0].Amount)
	assert.Empty(t, recs[0].Balance)
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := cgd.NewParser().Parse(strings.NewReader(""))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no matching CGD format")
}

func TestParser_HeaderOnly(t *testing.T) {
	recs, err := cgd.NewParser().Parse(strings.NewReader(`Data mov.;Data-valor;Descrição;Montante`))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParser_MissingDescription(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;;-10,00
`

	_, err := cgd.NewParser().Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParser_LargeAmounts(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;BIG TRANSFER;-1.234.567,89
`

	recs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "-1234567.89", recs[0].Amount)
	assert.Equal(t, int64(123456789), transaction.NewNormalizer("").Normalize(recs[0]).Amount)
}

func TestParser_SkipsFooterAndZeroRows(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
31-01-2026;NOTHING;0,00
Totais;;;;
`

	recs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "TEST", recs[0].Description)
}
