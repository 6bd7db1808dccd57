package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my/internal/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadExpenses(t *testing.T) {
	path := writeFile(t, "expenses.csv", "Timestamp,Merchant,Amount,Category\n"+
		"2023-01-05,Hilton,100.00,Hotel\n"+
		"2023-01-20, Bistro , 50.00 ,Business Meals\n")

	got, err := New(0).ReadExpenses(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2023-01-05", got[0].Timestamp)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Hotel", got[0].Category)
	assert.Equal(t, core.Source{File: path, Row: 1}, got[0].Source)

	assert.Equal(t, "Business Meals", got[1].Category)
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 2, got[1].Source.Row)
}

func TestReadExpensesHeaderVariants(t *testing.T) {
	t.Run("byte order mark and reordered columns", func(t *testing.T) {
		path := writeFile(t, "bom.csv", "\ufeffCategory,Amount,Timestamp\nTaxi,12.5,2023-02-01\n")
		got, err := New(0).ReadExpenses(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Taxi", got[0].Category)
		assert.Equal(t, "2023-02-01", got[0].Timestamp)
	})

	t.Run("tab separated by extension", func(t *testing.T) {
		path := writeFile(t, "expenses.tsv", "Timestamp\tAmount\tCategory\n2023-02-01\t3.25\tBus\n")
		got, err := New(0).ReadExpenses(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Bus", got[0].Category)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		path := writeFile(t, "expenses.csv", "Timestamp;Amount;Category\n2023-02-01;3.25;Bus\n")
		got, err := New(';').ReadExpenses(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "Timestamp,Amount,Category\n")
		got, err := New(0).ReadExpenses(context.Background(), path)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("blank rows are skipped", func(t *testing.T) {
		path := writeFile(t, "blank.csv", "Timestamp,Amount,Category\n,,\n2023-02-01,1,Bus\n")
		got, err := New(0).ReadExpenses(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].Source.Row)
	})
}

func TestReadExpensesErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := New(0).ReadExpenses(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
		var fae *core.FileAccessError
		require.ErrorAs(t, err, &fae)
		assert.Contains(t, err.Error(), "nope.csv")
	})

	cases := []struct {
		name    string
		content string
		row     int
		column  string
	}{
		{"empty file", "", 0, ""},
		{"missing column in header", "Timestamp,Amount\n2023-01-01,1\n", 0, "Category"},
		{"short row", "Timestamp,Amount,Category\n2023-01-01,1,Hotel\n2023-01-02,2\n", 2, "Category"},
		{"row with only a timestamp", "Timestamp,Amount,Category\n2023-01-05\n", 1, "Amount"},
		{"invalid amount", "Timestamp,Amount,Category\n2023-01-01,$1,Hotel\n", 1, "Amount"},
		{"empty amount", "Timestamp,Amount,Category\n2023-01-01,,Hotel\n", 1, "Amount"},
		{"bad quoting", "Timestamp,Amount,Category\n2023-01-01,1,\"Hotel\n", 1, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tc.content)
			_, err := New(0).ReadExpenses(context.Background(), path)
			var mre *core.MalformedRecordError
			require.ErrorAs(t, err, &mre)
			assert.Equal(t, path, mre.Path)
			assert.Equal(t, tc.row, mre.Row)
			assert.Equal(t, tc.column, mre.Column)
		})
	}
}

func TestReadExpensesCancelled(t *testing.T) {
	path := writeFile(t, "expenses.csv", "Timestamp,Amount,Category\n2023-01-05,100.00,Hotel\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(0).ReadExpenses(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
