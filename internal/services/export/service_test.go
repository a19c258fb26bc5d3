package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

type fakeLedger struct {
	lines    []entity.LedgerLine
	err      error
	from, to *time.Time
}

func (f *fakeLedger) List(_ context.Context, from, to *time.Time) ([]entity.LedgerLine, error) {
	f.from, f.to = from, to
	return f.lines, f.err
}

func TestLedgerXLSX(t *testing.T) {
	ledger := &fakeLedger{lines: []entity.LedgerLine{{
		InvoiceID: "WKY00001", LineNo: 1, Date: time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC),
		Code: "SH001", Name: "Shampoo Herbal", Quantity: 2, DiscountPct: decimal.NewFromInt(10),
		UnitPriceExTax: decimal.RequireFromString("8403.36"), LineTotal: decimal.NewFromInt(18000),
		ClientName: "Ana Ruiz", Phone: "3001234567", Email: "ana@x.co", Tier: constants.TierAI, Score: 0.9,
	}}}
	svc := NewService(ledger, nil)

	from := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	data, err := svc.LedgerXLSX(context.Background(), &from, &to)
	require.NoError(t, err)

	require.NotNil(t, ledger.from)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *ledger.from)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC), *ledger.to)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(Sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "WKY00001", rows[1][0])
	assert.Equal(t, "2024-03-01", rows[1][1])
	assert.Equal(t, "SH001", rows[1][2])
	assert.Equal(t, "2", rows[1][4])
	assert.Equal(t, "18000", rows[1][7])
	assert.Equal(t, "ai", rows[1][12])
}

func TestLedgerXLSX_OpenBounds(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewService(ledger, nil)

	_, err := svc.LedgerXLSX(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, ledger.from)
	assert.Nil(t, ledger.to)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.LedgerXLSX(context.Background(), &from, nil)
	require.NoError(t, err)
	require.NotNil(t, ledger.to, "from alone runs through today")
	assert.True(t, ledger.to.After(time.Now().UTC().Add(-24*time.Hour)))
}

func TestLedgerXLSX_QueryError(t *testing.T) {
	svc := NewService(&fakeLedger{err: errors.New("db down")}, nil)
	_, err := svc.LedgerXLSX(context.Background(), nil, nil)
	assert.Error(t, err)
}
