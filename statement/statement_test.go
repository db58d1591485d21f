package statement_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/ledger"
	"github.com/stockbook/stockbook/statement"
)

func TestRender_ProducesPDF(t *testing.T) {
	entries := []ledger.Entry{
		{
			ID:        "txn-1",
			Customer:  "Alice",
			Amount:    decimal.NewFromInt(100),
			Kind:      ledger.KindInvoice,
			CreatedAt: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "txn-2",
			Customer:  "Alice",
			Amount:    decimal.NewFromInt(40),
			Kind:      ledger.KindPayment,
			CreatedAt: time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
		},
	}

	pdf, err := statement.Render("Alice", entries, decimal.NewFromInt(60))
	require.NoError(t, err)

	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRender_NoEntries(t *testing.T) {
	pdf, err := statement.Render("Nobody", nil, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
