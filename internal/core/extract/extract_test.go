package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/core/normalize"
	"github.com/joseph-ayodele/orders-intake/internal/core/resolver"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

func entry(code, name string, price int64) entity.CatalogEntry {
	return entity.CatalogEntry{Code: code, Name: name, UnitPrice: decimal.NewFromInt(price), TaxRatePct: decimal.NewFromInt(19)}
}

func testCatalog() entity.Catalog {
	return entity.Catalog{
		entry("SH001", "Shampoo Herbal", 10000),
		entry("KV001", "Kit Viajero Herbal", 45000),
		entry("SU010", "Suero Capilar", 32000),
	}
}

const taggedOrder = "[CLIENTE]\nJuan Pérez\nCC 98765432\n\n[PRODUCTOS]\n- Código: SH001 | Cantidad: 1 | Descuento: 0%\n\n[CONTACTO]\nTeléfono: 300 123 4567\nEmail: juan@email.com"

func TestParseSections(t *testing.T) {
	s := ParseSections(normalize.Normalize(taggedOrder + "\n[notas]\nentregar en la tarde\n[otro]\nignorado"))
	assert.Equal(t, "Juan Pérez\nCC 98765432", s[constants.SectionClient])
	assert.Equal(t, "- Código: SH001 | Cantidad: 1 | Descuento: 0%", s[constants.SectionProducts])
	assert.Equal(t, "entregar en la tarde", s[constants.SectionNotes])
	assert.Empty(t, s.Missing())
	assert.Len(t, s, 4)

	assert.Empty(t, ParseSections("sin etiquetas\nnada"))
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"Juan Pérez", LineClient},
		{"CC 98765432", LineClient},
		{"juan@email.com", LineContact},
		{"Teléfono: 300 123 4567", LineContact},
		{"310-555-1234", LineContact},
		{"- Shampoo herbal", LineProduct},
		{"Código: SH001 | Cantidad: 2", LineProduct},
		{"SH001 x 2", LineProduct},
		{"2 shampoo herbal", LineProduct},
		{"Champú x2", LineProduct},
		{"Exfoliante de café x2", LineProduct},
		{"Tónico × 3", LineProduct},
		{"FC 15 de marzo", LineBirthday},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyLine(tt.line), tt.line)
	}
}

func TestParseProductRef(t *testing.T) {
	tests := []struct {
		line     string
		code     string
		text     string
		qty      int
		discount int64
	}{
		{"- Código: SH001 | Cantidad: 3 | Descuento: 10%", "SH001", "", 3, 10},
		{"Codigo: kv001 | cantidad: 1", "kv001", "", 1, 0},
		{"SH001 x 2 [DESCUENTO: 5%]", "SH001", "", 2, 5},
		{"SU010 x4", "SU010", "", 4, 0},
		{"Kit viajero x3 (15% dscto)", "", "Kit viajero", 3, 15},
		{"2 shampoo herbal", "", "shampoo herbal", 2, 0},
		{"suero capilar 4", "", "suero capilar", 4, 0},
		{"shampoo herbal 20% descuento", "", "shampoo herbal", 1, 20},
		{"Suero 100% natural", "", "Suero 100% natural", 1, 0},
		{"Champú x2", "", "Champú", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ref, ok := ParseProductRef(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.code, ref.Code)
			assert.Equal(t, tt.text, ref.Text)
			assert.Equal(t, tt.qty, ref.Quantity)
			assert.True(t, ref.DiscountPct.Equal(decimal.NewFromInt(tt.discount)), "discount %s", ref.DiscountPct)
		})
	}

	_, ok := ParseProductRef("  - ")
	assert.False(t, ok)
}

func TestResolveLine_FreeTextKit(t *testing.T) {
	r := resolver.New(testCatalog(), resolver.StructuredOptions())
	li, ok := ResolveLine("Kit viajero x3 (15% dscto)", r)
	require.True(t, ok)
	assert.Equal(t, "KV001", li.Code)
	assert.Equal(t, 3, li.Quantity)
	assert.True(t, li.DiscountPct.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, constants.MatchSynonym, li.Match)
	assert.True(t, li.LineTotal.Equal(decimal.NewFromInt(114750)))
}

func TestParseClient(t *testing.T) {
	tests := []struct {
		block string
		name  string
		id    string
		ok    bool
	}{
		{"Juan Pérez\nCC 98765432", "Juan Pérez", "98765432", true},
		{"Ana María Gómez CC 1.234.567", "Ana María Gómez", "1234567", true},
		{"ana@correo.com\nNombre: Ana Ruiz", "Ana Ruiz", "", true},
		{"Al", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		name, id, ok := ParseClient(tt.block)
		assert.Equal(t, tt.ok, ok, tt.block)
		assert.Equal(t, tt.name, name, tt.block)
		assert.Equal(t, tt.id, id, tt.block)
	}
}

func TestParseContact(t *testing.T) {
	c, ok := ParseContact("Teléfono: +57 300 123 4567\nEmail: juan@email.com")
	require.True(t, ok)
	assert.Equal(t, "+57 300 123 4567", c.Phone)
	assert.Equal(t, "juan@email.com", c.Email)

	_, ok = ParseContact("Teléfono: 300 123 4567")
	assert.False(t, ok)
	_, ok = ParseContact("juan@email.com\nCC 98765432")
	assert.False(t, ok)
}

func TestParseBirthday(t *testing.T) {
	assert.Equal(t, "15/3", ParseBirthday("FC: 15 de Marzo"))
	assert.Equal(t, "3/12", ParseBirthday("algo\nFC 3 de diciembre"))
	assert.Equal(t, "05/11", ParseBirthday("FC 05/11"))
	assert.Equal(t, "", ParseBirthday("FC 15 de marzzo"))
	assert.Equal(t, "", ParseBirthday("FC 40/11"))
	assert.Equal(t, "", ParseBirthday("sin fecha"))
	assert.Equal(t, "7/7", ParseBirthdayBlock("7 de julio"))
}

func TestStructured_TaggedOrder(t *testing.T) {
	r := resolver.New(testCatalog(), resolver.StructuredOptions())
	got, err := NewStructured(nil).Extract(normalize.Normalize(taggedOrder+"\n[CUMPLEAÑOS]\n3 de mayo"), r)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Juan Pérez", got.ClientName)
	assert.Equal(t, "98765432", got.ClientID)
	assert.Equal(t, "300 123 4567", got.Contact.Phone)
	assert.Equal(t, "juan@email.com", got.Contact.Email)
	assert.Equal(t, "3/5", got.Birthday)
	assert.Equal(t, constants.TierStructured, got.SourceTier)
	want := []entity.LineItem{{
		Code:           "SH001",
		Name:           "Shampoo Herbal",
		Quantity:       1,
		DiscountPct:    decimal.Zero,
		UnitPriceExTax: decimal.NewFromInt(8403),
		LineTotal:      decimal.NewFromInt(10000),
		Match:          constants.MatchCode,
	}}
	decimalEqual := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got.LineItems, decimalEqual); diff != "" {
		t.Errorf("line items mismatch (-want +got):\n%s", diff)
	}
}

func TestStructured_HeuristicLines(t *testing.T) {
	msg := "Laura Gómez CC 52123456\n- Kit viajero x2\n- SU010 x 1\nlaura@gmail.com 310 555 1234\nFC 9 de agosto"
	r := resolver.New(testCatalog(), resolver.StructuredOptions())
	got, err := NewStructured(nil).Extract(normalize.Normalize(msg), r)
	require.NoError(t, err)
	assert.Equal(t, "Laura Gómez", got.ClientName)
	assert.Equal(t, "9/8", got.Birthday)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "KV001", got.LineItems[0].Code)
	assert.Equal(t, 2, got.LineItems[0].Quantity)
	assert.Equal(t, "SU010", got.LineItems[1].Code)
}

func TestStructured_AccentedProductLine(t *testing.T) {
	catalog := append(testCatalog(), entry("CF01", "Exfoliante de Café", 30000))
	r := resolver.New(catalog, resolver.StructuredOptions())
	msg := "Juan Pérez\nCC 98765432\nExfoliante de café x2\n300 123 4567\njuan@email.com"

	got, err := NewStructured(nil).Extract(normalize.Normalize(msg), r)
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", got.ClientName)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "CF01", got.LineItems[0].Code)
	assert.Equal(t, 2, got.LineItems[0].Quantity)
	assert.True(t, got.LineItems[0].LineTotal.Equal(decimal.NewFromInt(60000)), "total %s", got.LineItems[0].LineTotal)
}

func TestStructured_EmphasizedClientName(t *testing.T) {
	r := resolver.New(testCatalog(), resolver.StructuredOptions())
	msg := "*Juan Pérez*\nKit x2\n300 123 4567\njuan@email.com"

	got, err := NewStructured(nil).Extract(normalize.Normalize(msg), r)
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", got.ClientName)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "KV001", got.LineItems[0].Code)
	assert.Equal(t, 2, got.LineItems[0].Quantity)
}

func TestStructured_Misses(t *testing.T) {
	r := resolver.New(testCatalog(), resolver.StructuredOptions())
	s := NewStructured(nil)
	tests := []struct {
		name string
		msg  string
		err  error
	}{
		{"missing contact", "[CLIENTE]\nJuan Pérez\n[PRODUCTOS]\n- SH001 x 1", ErrMissingSection},
		{"unknown code", "[CLIENTE]\nJuan Pérez\n[PRODUCTOS]\n- Código: ZZZ999 | Cantidad: 1\n[CONTACTO]\n300 123 4567 juan@email.com", ErrNoProducts},
		{"short name", "[CLIENTE]\nJP\n[PRODUCTOS]\n- SH001 x 1\n[CONTACTO]\n300 123 4567 juan@email.com", ErrNoClient},
		{"no email", "[CLIENTE]\nJuan Pérez\n[PRODUCTOS]\n- SH001 x 1\n[CONTACTO]\n300 123 4567", ErrNoContact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Extract(normalize.Normalize(tt.msg), r)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEmergency(t *testing.T) {
	e := NewEmergency(0)
	cat := testCatalog()

	t.Run("empty input uses sentinels and the first entry", func(t *testing.T) {
		got := e.Extract("", cat)
		assert.Equal(t, constants.DefaultClientName, got.ClientName)
		assert.Equal(t, constants.PhoneMissing, got.Contact.Phone)
		assert.Equal(t, constants.EmailPlaceholder, got.Contact.Email)
		assert.Equal(t, constants.TierEmergency, got.SourceTier)
		require.Len(t, got.LineItems, 1)
		assert.Equal(t, "SH001", got.LineItems[0].Code)
		assert.Equal(t, constants.MatchFallback, got.LineItems[0].Match)
	})

	t.Run("keyword and contact recovered", func(t *testing.T) {
		msg := "hola\nMariana Restrepo CC 1234567890\nquiero el suero por favor\n3001234567\nmariana@x.co"
		got := e.Extract(normalize.Normalize(msg), cat)
		assert.Equal(t, "Mariana Restrepo", got.ClientName)
		assert.Equal(t, "1234567890", got.ClientID)
		assert.Equal(t, "3001234567", got.Contact.Phone)
		assert.Equal(t, "mariana@x.co", got.Contact.Email)
		require.Len(t, got.LineItems, 1)
		assert.Equal(t, "SU010", got.LineItems[0].Code)
		assert.Equal(t, constants.MatchKeyword, got.LineItems[0].Match)
	})

	t.Run("scan limit bounds the keyword search", func(t *testing.T) {
		got := NewEmergency(1).Extract("quiero el suero capilar", cat)
		assert.Equal(t, "SH001", got.LineItems[0].Code)
		assert.Equal(t, constants.MatchFallback, got.LineItems[0].Match)
	})

	t.Run("empty catalog yields no items", func(t *testing.T) {
		assert.Empty(t, e.Extract("Juan Pérez quiere algo", nil).LineItems)
	})
}

func TestLooksLikeOrder(t *testing.T) {
	assert.True(t, LooksLikeOrder("Juan Pérez CC 98765432, 2 shampoo herbal, juan@gmail.com"))
	assert.False(t, LooksLikeOrder("hola, gracias"))
	assert.False(t, LooksLikeOrder("este pedido es diferente al de ayer CC 123 shampoo"))
	assert.False(t, LooksLikeOrder("kit kit kit kit kit kit kit kit kit kit kit kit"))
}

func TestSplitMessages(t *testing.T) {
	text := "uno\r\n=== PEDIDO SEPARADOR ===\r\n\n=== PEDIDO SEPARADOR ===\ndos\nlinea\n=== PEDIDO SEPARADOR ===\n"
	assert.Equal(t, []string{"uno", "dos\nlinea"}, SplitMessages(text))
	assert.Nil(t, SplitMessages("  "))
}
