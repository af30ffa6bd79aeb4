package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
)

func intSpec() *schema.ParamSpec {
	return &schema.ParamSpec{Name: "seed", Kind: schema.KindWidget, TypeTag: "INT", Required: true}
}

func TestWrapEqualsUnwrapped(t *testing.T) {
	// Wrapping never affects equality.
	values := []api.Value{
		api.Int(42),
		api.Float(0.5),
		api.String("x"),
		api.Bool(true),
		api.Array{api.Int(1), api.String("a")},
	}
	for _, v := range values {
		w := Wrap(v, intSpec())
		assert.True(t, w.Equal(v))
		assert.True(t, w.Equal(Wrap(v, intSpec())))
	}

	w := Wrap(api.Int(42), intSpec())
	assert.False(t, w.Equal(api.Int(43)))
	assert.False(t, w.Equal("not a value"))
}

func TestWrappedCompare(t *testing.T) {
	w := Wrap(api.Int(10), intSpec())

	cmp, ok := w.Compare(api.Int(20))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = w.Compare(Wrap(api.Int(10), intSpec()))
	require.True(t, ok)
	assert.Equal(t, 0, cmp)

	cmp, ok = w.Compare(api.Float(9.5))
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	_, ok = w.Compare(api.String("20"))
	assert.False(t, ok)

	_, ok = w.Compare(api.Array{})
	assert.False(t, ok)
}

func TestWrappedStringCompare(t *testing.T) {
	w := Wrap(api.String("apple"), &schema.ParamSpec{Name: "s", Kind: schema.KindWidget, TypeTag: "STRING"})
	cmp, ok := w.Compare(api.String("banana"))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestWrappedChoicesAndTooltip(t *testing.T) {
	spec := &schema.ParamSpec{
		Name:    "mode",
		Kind:    schema.KindWidget,
		TypeTag: "COMBO",
		Choices: []string{"fast", "slow"},
		Tooltip: "execution mode",
	}
	w := Wrap(api.String("fast"), spec)

	choices, ok := w.Choices()
	require.True(t, ok)
	assert.Equal(t, []string{"fast", "slow"}, choices)

	tip, ok := w.Tooltip()
	require.True(t, ok)
	assert.Equal(t, "execution mode", tip)

	bare := Wrap(api.Int(1), intSpec())
	_, ok = bare.Choices()
	assert.False(t, ok)
	_, ok = bare.Tooltip()
	assert.False(t, ok)
}

func TestLookupValue(t *testing.T) {
	wrapped := Lookup{Kind: LookupWrapped, Wrapped: Wrap(api.Int(5), intSpec())}
	assert.True(t, api.Equal(api.Int(5), wrapped.Value()))

	raw := Lookup{Kind: LookupRaw, Raw: api.String("x")}
	assert.True(t, api.Equal(api.String("x"), raw.Value()))
}
