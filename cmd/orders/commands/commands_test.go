package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/catalog"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

const order = "[CLIENTE]\nJuan Pérez\nCC 98765432\n\n[PRODUCTOS]\n- Código: SH001 | Cantidad: 1 | Descuento: 0%\n\n[CONTACTO]\nTeléfono: 300 123 4567\nEmail: juan@email.com"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ORDERS_CONFIG", "")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seedCatalog(t *testing.T, dir, db string) {
	t.Helper()
	path := filepath.Join(dir, "catalog.xlsx")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, catalog.WriteXLSX(f, entity.Catalog{
		{Code: "SH001", Name: "Shampoo Herbal", UnitPrice: decimal.NewFromInt(10000), TaxRatePct: decimal.NewFromInt(19)},
		{Code: "SU010", Name: "Suero Capilar", UnitPrice: decimal.NewFromInt(30000), TaxRatePct: decimal.NewFromInt(19)},
	}))
	require.NoError(t, f.Close())

	out, err := run(t, "", "--db", db, "catalog", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 products")
}

func TestCLI_CatalogAndExtract(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "orders.db")

	out, err := run(t, "", "--db", db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated (sqlite3)")

	seedCatalog(t, dir, db)

	out, err = run(t, "", "--db", db, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SH001")
	assert.Contains(t, out, "Suero Capilar")

	out, err = run(t, "", "--db", db, "catalog", "search", "suero")
	require.NoError(t, err)
	assert.Contains(t, out, "SU010")

	out, err = run(t, order, "--db", db, "extract", "-")
	require.NoError(t, err)
	var got struct {
		Order   entity.OrderExtraction `json:"pedido"`
		Quality entity.QualityReport   `json:"calidad"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Juan Pérez", got.Order.ClientName)
	assert.Equal(t, 1.0, got.Quality.Score)

	_, err = run(t, "   ", "--db", db, "extract")
	assert.Error(t, err)
}

func TestCLI_BatchAndExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "orders.db")
	seedCatalog(t, dir, db)

	chat := strings.Join([]string{order, "hola, gracias", strings.Replace(order, "SH001", "SU010", 1)},
		"\n"+constants.MessageSeparator+"\n")
	out, err := run(t, chat, "--db", db, "batch", "-", "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	var second, third batchLine
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))
	assert.True(t, second.Skipped)
	assert.True(t, third.Saved)
	assert.Equal(t, "SU010", third.Order.LineItems[0].Code)

	xlsx := filepath.Join(dir, "out.xlsx")
	out, err = run(t, "", "--db", db, "export", "--out", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+xlsx)
	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = run(t, "", "--db", db, "export", "--from", "March")
	assert.Error(t, err)
}
