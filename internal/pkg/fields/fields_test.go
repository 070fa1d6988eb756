package fields

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	out := map[string]any{}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestStringPriority(t *testing.T) {
	doc := decode(t, `{"pix_code":"","qr_code":"QR","emv":"EMV","id":42}`)

	require.Equal(t, "QR", String(doc, "pix_code", "qr_code", "emv"))
	require.Equal(t, "42", String(doc, "transaction_id", "id"))
	require.Equal(t, "", String(doc, "missing", "also.missing"))
}

func TestNestedPaths(t *testing.T) {
	doc := decode(t, `{"charges":[{"last_transaction":{"qr_code":"abc"}}],"valor":{"original":"10.50"}}`)

	require.Equal(t, "abc", String(doc, "charges.0.last_transaction.qr_code"))
	require.Equal(t, "", String(doc, "charges.1.last_transaction.qr_code"))
	require.Equal(t, "", String(doc, "charges.x.last_transaction"))

	d, ok := Decimal(doc, "valor.original")
	require.True(t, ok)
	require.Equal(t, "10.5", d.String())
}

func TestLookupsNeverPanic(t *testing.T) {
	require.NotPanics(t, func() {
		String(nil, "a.b.c")
		Decimal(nil, "a")
		String(map[string]any{"a": "scalar"}, "a.b")
		String(map[string]any{"a": []any{}}, "a.-1")
	})
}

func TestDecimal(t *testing.T) {
	doc := decode(t, `{"transaction_amount":1990,"value":"bad","amount":"12.30"}`)

	d, ok := Decimal(doc, "value", "amount")
	require.True(t, ok)
	require.Equal(t, "12.3", d.String())

	_, ok = Decimal(doc, "nope")
	require.False(t, ok)
}

func TestMerge(t *testing.T) {
	dst := map[string]any{"a": 1, "b": map[string]any{"x": 1}}
	out := Merge(dst, map[string]any{"b": "replaced", "c": 3})

	require.Equal(t, "replaced", out["b"])
	require.Equal(t, 3, out["c"])
	require.Equal(t, 1, out["a"])
}
