package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivotreport/internal/models"
)

const transactionsCSV = `transaction_type,transaction_number,amount,status,year
invoice,1,100,paid,2024
bill,2,200.5,unpaid,2024
direct_expense,3,,partially_paid,2023
"invoice",4,50,,2023
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	recs, err := ReadCSV(context.Background(), strings.NewReader(transactionsCSV))
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, models.Record{
		"transaction_type":   "invoice",
		"transaction_number": "1",
		"amount":             "100",
		"status":             "paid",
		"year":               "2024",
	}, recs[0])

	// Empty cells are absent, so they group under the placeholder.
	_, ok := recs[2]["amount"]
	assert.False(t, ok)
	_, ok = recs[3]["status"]
	assert.False(t, ok)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	recs, err := ReadCSV(context.Background(), strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = ReadCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadJSON(t *testing.T) {
	recs, err := ReadJSON(strings.NewReader(`[
		{"year": 2024, "status": "paid", "amount": 12.5},
		{"year": "2023", "status": "unpaid", "amount": "7"}
	]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	res := Group(recs, byYear("status"))
	assert.Equal(t, []string{"2024", "2023"}, res.RowKeys)
	assert.Equal(t, 12.5, res.Cells["2024"]["paid"])
	assert.Equal(t, 7.0, res.Cells["2023"]["unpaid"])

	_, err = ReadJSON(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	csvPath := writeTemp(t, "a.csv", transactionsCSV)
	jsonPath := writeTemp(t, "b.json", `[{"year":"2020","status":"paid","amount":"1"}]`)

	recs, err := LoadFiles(context.Background(), []string{csvPath, jsonPath}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "2020", recs[4]["year"], "files are concatenated in order")

	res := ComputePivot(recs, byYear("status"))
	assert.InDelta(t, 351.5, res.GrandTotal, 1e-9)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)

	_, err = LoadFile(context.Background(), writeTemp(t, "data.xml", "<x/>"), nil)
	assert.ErrorContains(t, err, "unsupported dataset format")

	_, err = LoadFiles(context.Background(), []string{writeTemp(t, "ok.csv", transactionsCSV), "nope.json"}, nil)
	assert.Error(t, err)
}
