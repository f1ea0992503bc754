package money

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 is the canonical float trap.
	a := MustFromString("0.1")
	b := MustFromString("0.2")
	assert.True(t, Equal(Add(a, b), MustFromString("0.3")))

	// 500 * 5 * 0.2 must come out to exactly 500.
	vat := Mul(Mul(New(500), New(5)), MustFromString("0.2"))
	assert.True(t, Equal(vat, New(500)))
}

func TestDivByZero(t *testing.T) {
	_, err := Div(New(10), Zero())
	require.ErrorIs(t, err, ErrDivisionByZero)

	q, err := Div(New(10), New(4))
	require.NoError(t, err)
	assert.True(t, Equal(q, MustFromString("2.5")))
}

func TestSum(t *testing.T) {
	assert.True(t, IsZero(Sum()))
	assert.True(t, Equal(Sum(New(1), New(2), MustFromString("3.5")), MustFromString("6.5")))
}

func TestSigns(t *testing.T) {
	assert.True(t, IsPositive(New(5)))
	assert.True(t, IsNegative(New(-5)))
	assert.False(t, IsPositive(Zero()))
	assert.False(t, IsNegative(Zero()))
	assert.True(t, Equal(Abs(New(-7)), New(7)))
	assert.Equal(t, -1, Compare(New(1), New(2)))
	assert.Equal(t, 0, Compare(MustFromString("2.50"), MustFromString("2.5")))
	assert.Equal(t, 1, Compare(New(3), New(2)))
}

func TestFloor(t *testing.T) {
	assert.True(t, Equal(Floor(MustFromString("19.99")), New(19)))
	assert.True(t, Equal(Floor(New(20)), New(20)))
}

// Sum must agree with a sequential fold regardless of the magnitudes
// and scales involved.
func TestSumRandomizedFold(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := rng.Intn(20)
		vs := make([]Money, 0, n)
		expected := decimal.Zero
		for j := 0; j < n; j++ {
			v := decimal.New(rng.Int63n(1_000_000)-500_000, int32(-rng.Intn(6)))
			vs = append(vs, v)
			expected = expected.Add(v)
		}
		assert.True(t, Equal(Sum(vs...), expected))
	}
}
