package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
	"github.com/joseph-ayodele/orders-intake/internal/services/export"
)

const order = "[CLIENTE]\nJuan Pérez\nCC 98765432\n\n[PRODUCTOS]\n- Código: SH001 | Cantidad: 2 | Descuento: 0%\n\n[CONTACTO]\nTeléfono: 300 123 4567\nEmail: juan@email.com"

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := common.DefaultConfig()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "orders.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestApp_OrderFlow(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	_, err := a.Orders.Handle(ctx, order)
	assert.ErrorIs(t, err, common.ErrCatalogUnavailable, "empty product table")

	require.NoError(t, a.Products.ReplaceAll(ctx, entity.Catalog{
		{Code: "SH001", Name: "Shampoo Herbal", UnitPrice: decimal.NewFromInt(10000), TaxRatePct: decimal.NewFromInt(19)},
	}))

	res, err := a.Orders.Handle(ctx, order)
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, "WKY00001", res.InvoiceID)
	assert.Equal(t, 1.0, res.Quality.Score)
	assert.True(t, res.Order.Total().Equal(decimal.NewFromInt(20000)))

	res, err = a.Orders.Handle(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "WKY00002", res.InvoiceID)

	c, err := a.Customers.Get(ctx, "juan@email.com")
	require.NoError(t, err)
	assert.Equal(t, "98765432", c.DocumentID)
	assert.Equal(t, 2, c.Stats.Purchases)
	assert.True(t, c.Stats.TotalSpent.Equal(decimal.NewFromInt(40000)))

	data, err := a.Export.LedgerXLSX(ctx, nil, nil)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.Sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.LLM.Provider = "carrier-pigeon"
	_, err := New(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
