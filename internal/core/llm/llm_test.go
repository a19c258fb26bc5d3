package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

type fakeClient struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() entity.Catalog {
	entry := func(code, name string, price int64) entity.CatalogEntry {
		return entity.CatalogEntry{Code: code, Name: name, UnitPrice: decimal.NewFromInt(price), TaxRatePct: decimal.NewFromInt(19)}
	}
	return entity.Catalog{
		entry("SH001", "Shampoo Herbal", 10000),
		entry("KV001", "Kit Viajero Herbal", 45000),
		entry("SU010", "Suero Capilar", 30000),
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"fenced", "Aquí está:\n```json\n{\"a\": 1}\n```\nlisto", `{"a": 1}`, false},
		{"fenced without language", "```\n{\"a\": {\"b\": 2}}\n```", `{"a": {"b": 2}}`, false},
		{"bare object with prose", `claro {"a": "x}y", "b": [1]} y algo más {"c": 3}`, `{"a": "x}y", "b": [1]}`, false},
		{"escaped quote in string", `{"a": "dijo \"}\" ok"}`, `{"a": "dijo \"}\" ok"}`, false},
		{"unbalanced", `{"a": 1`, "", true},
		{"no json", "lo siento, no puedo", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizeAndSanitizeJSON(t *testing.T) {
	raw := []byte(`{
		"products": [
			{"code": "SH001", "name": "Shampoo", "qty": "2", "discount": "10%", "precio": 9000, "total": 18000},
			{"articulo": "Suero", "cantidad": 0},
			"basura",
			{"cantidad": 3}
		],
		"cliente": "  Ana Ruiz ",
		"telefono": null,
		"email": "",
		"factura": "N/A"
	}`)

	out, dropped, err := NormalizeAndSanitizeJSON(raw, quietLogger())
	require.NoError(t, err)
	assert.NotEmpty(t, dropped)
	require.NoError(t, ValidateOrderJSON(out))

	var g OrderGuess
	require.NoError(t, json.Unmarshal(out, &g))
	assert.Equal(t, OrderGuess{
		Products: []ProductGuess{
			{Code: "SH001", Name: "Shampoo", Quantity: 2, Discount: 10},
			{Name: "Suero", Quantity: 1, Discount: 0},
		},
		Client: "Ana Ruiz",
	}, g)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.NotContains(t, m, "factura")
	assert.NotContains(t, m, "telefono")
}

func TestValidateOrderJSON_RejectsPriceKeysAndEmptyProducts(t *testing.T) {
	assert.Error(t, ValidateOrderJSON([]byte(`{"productos": []}`)))
	assert.Error(t, ValidateOrderJSON([]byte(`{"productos": [{"articulo": "x", "cantidad": 1, "descuento": 0, "precio": 5}]}`)))
	assert.Error(t, ValidateOrderJSON([]byte(`{"productos": [{"articulo": "x", "cantidad": 0, "descuento": 0}]}`)))
	assert.NoError(t, ValidateOrderJSON([]byte(`{"productos": [{"articulo": "x", "cantidad": 2, "descuento": 12.5}]}`)))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Juan x2 shampoo", testCatalog())
	assert.Contains(t, p, "SH001: Shampoo Herbal - Precio: $10000 (IVA: 19%)")
	assert.Contains(t, p, "SU010: Suero Capilar")
	assert.Contains(t, p, `"Juan x2 shampoo"`)
	assert.Contains(t, p, `"fechaCumpleanos"`)
	assert.Contains(t, p, constants.EmailPlaceholder)
}

func TestExtractor_RepricesAndResolves(t *testing.T) {
	reply := "```json\n" + `{
		"productos": [
			{"codigo": "SH001", "articulo": "Shampoo Herbal", "cantidad": 2, "descuento": 10, "precio": 1},
			{"codigo": "", "articulo": "kit viajero", "cantidad": 1, "descuento": 0},
			{"codigo": "ZZZ999", "articulo": "xqzv wrtp", "cantidad": 1, "descuento": 0}
		],
		"cliente": "Laura Gómez",
		"telefono": "310 555 1234",
		"email": "Laura@Gmail.com",
		"fechaCumpleanos": "9/8"
	}` + "\n```"
	fc := &fakeClient{reply: reply}
	x := NewExtractor(fc, time.Second, quietLogger())

	got, err := x.Extract(context.Background(), "Laura Gómez CC 52123456 quiere shampoo", testCatalog())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, fc.calls)
	assert.Contains(t, fc.prompt, "KV001: Kit Viajero Herbal")

	assert.Equal(t, constants.TierAI, got.SourceTier)
	assert.Equal(t, "Laura Gómez", got.ClientName)
	assert.Equal(t, "52123456", got.ClientID)
	assert.Equal(t, "310 555 1234", got.Contact.Phone)
	assert.Equal(t, "laura@gmail.com", got.Contact.Email)
	assert.Equal(t, "9/8", got.Birthday)

	require.Len(t, got.LineItems, 3)
	sh := got.LineItems[0]
	assert.Equal(t, "SH001", sh.Code)
	assert.Equal(t, constants.MatchCode, sh.Match)
	assert.True(t, sh.LineTotal.Equal(decimal.NewFromInt(18000)), sh.LineTotal.String())

	kit := got.LineItems[1]
	assert.Equal(t, "KV001", kit.Code)
	assert.True(t, kit.LineTotal.Equal(decimal.NewFromInt(45000)))

	unknown := got.LineItems[2]
	assert.Equal(t, "ZZZ999", unknown.Code)
	assert.Equal(t, constants.MatchUnresolved, unknown.Match)
	assert.True(t, unknown.LineTotal.IsZero())
	assert.False(t, unknown.Valid())
}

func TestExtractor_SentinelsForMissingContact(t *testing.T) {
	fc := &fakeClient{reply: `{"productos": [{"articulo": "suero capilar", "cantidad": 1, "descuento": 0}], "email": "no tiene", "telefono": "No identificado"}`}
	got, err := NewExtractor(fc, time.Second, quietLogger()).Extract(context.Background(), "suero", testCatalog())
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultClientName, got.ClientName)
	assert.Equal(t, constants.PhoneMissing, got.Contact.Phone)
	assert.Equal(t, constants.EmailPlaceholder, got.Contact.Email)
	assert.Empty(t, got.Birthday)
}

func TestExtractor_Misses(t *testing.T) {
	tests := []struct {
		name   string
		client CompletionClient
		is     error
	}{
		{"service error", &fakeClient{err: errors.New("boom")}, common.ErrCompletion},
		{"no client", nil, common.ErrCompletion},
		{"prose only", &fakeClient{reply: "no entiendo el pedido"}, ErrNoJSON},
		{"no products", &fakeClient{reply: `{"productos": [], "cliente": "Ana"}`}, nil},
		{"malformed items only", &fakeClient{reply: `{"productos": ["x", 3]}`}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewExtractor(tt.client, time.Second, quietLogger())
			got, err := x.Extract(context.Background(), "hola", testCatalog())
			require.Error(t, err)
			assert.Nil(t, got)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestHTTPClient_Complete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"productos\":[]}"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/v1/", "k-123", "local-model", 0.1, time.Second, quietLogger())
	out, err := c.Complete(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, `{"productos":[]}`, out)
	assert.Equal(t, "Bearer k-123", gotAuth)
	assert.Equal(t, "local-model", gotBody["model"])
}

func TestHTTPClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", "m", 0, time.Second, quietLogger())
	_, err := c.Complete(context.Background(), "hola")
	assert.ErrorContains(t, err, "503")
}

func TestRateLimited(t *testing.T) {
	fc := &fakeClient{reply: "{}"}
	rl := NewRateLimited(fc, 0.001, 1)

	_, err := rl.Complete(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = rl.Complete(ctx, "b")
	assert.ErrorContains(t, err, "rate limit")
	assert.Equal(t, 1, fc.calls)
}

func TestNewCompletionClient(t *testing.T) {
	c, err := NewCompletionClient(context.Background(), common.LLMConfig{Provider: "none"}, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewCompletionClient(context.Background(), common.LLMConfig{Provider: "http", BaseURL: "http://localhost:1"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &RateLimited{}, c)

	_, err = NewCompletionClient(context.Background(), common.LLMConfig{Provider: "claude-ish"}, quietLogger())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
