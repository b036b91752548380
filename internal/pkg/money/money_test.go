package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RoundsToScale(t *testing.T) {
	a, err := New("10.123456")
	require.NoError(t, err)
	assert.Equal(t, "10.1235", a.String())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("not-a-number")
	assert.Error(t, err)
}

func TestAddSub(t *testing.T) {
	a, _ := New("100.50")
	b, _ := New("30.25")

	assert.Equal(t, "130.7500", a.Add(b).String())
	assert.Equal(t, "70.2500", a.Sub(b).String())
}

func TestNegAbs(t *testing.T) {
	a, _ := New("42.00")
	assert.True(t, a.Neg().IsNegative())
	assert.Equal(t, a, a.Neg().Abs())
}

func TestIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	nonZero, _ := New("0.0001")
	assert.False(t, nonZero.IsZero())
}

func TestCmp(t *testing.T) {
	a, _ := New("5")
	b, _ := New("10")
	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.Equal(t, -1, a.Cmp(b))
}

func TestJSONRoundTrip(t *testing.T) {
	a, _ := New("1234.5600")

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"1234.5600"`, string(data))

	var out Amount
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, a.Equal(out))
}

func TestUnmarshalJSON_BareNumber(t *testing.T) {
	var a Amount
	require.NoError(t, a.UnmarshalJSON([]byte("42.5")))
	assert.Equal(t, "42.5000", a.String())
}

func TestValueScan(t *testing.T) {
	a, _ := New("99.9900")
	v, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, "99.9900", v)

	var out Amount
	require.NoError(t, out.Scan("99.9900"))
	assert.True(t, a.Equal(out))

	var zero Amount
	require.NoError(t, zero.Scan(nil))
	assert.True(t, zero.IsZero())
}
