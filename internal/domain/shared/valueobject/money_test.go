package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), INR)
		require.NoError(t, err)
		assert.Equal(t, INR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", INR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", INR)
		assert.Error(t, err)
	})
}

func TestNewMoneyINR(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromFloat(50.00))
	assert.Equal(t, INR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestZeroINR(t *testing.T) {
	m := ZeroINR()
	assert.True(t, m.IsZero())
	assert.Equal(t, INR, m.Currency())
}

func TestMoneySigns(t *testing.T) {
	positive := NewMoneyINRFromFloat(100)
	negative := NewMoneyINRFromFloat(-100)
	zero := ZeroINR()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())

	assert.False(t, negative.IsPositive())
	assert.True(t, negative.IsNegative())

	assert.False(t, zero.IsPositive())
	assert.False(t, zero.IsNegative())
	assert.True(t, zero.IsZero())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		m1 := NewMoneyINRFromFloat(100.50)
		m2 := NewMoneyINRFromFloat(50.25)
		result, err := m1.Add(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(150.75)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoneyFromFloat(100, INR)
		m2, _ := NewMoneyFromFloat(50, USD)
		_, err := m1.Add(m2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "different currencies")
	})
}

func TestMoneyMustAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		m1 := NewMoneyINRFromFloat(100)
		m2 := NewMoneyINRFromFloat(50)
		result := m1.MustAdd(m2)
		assert.Equal(t, 150.0, result.Float64())
	})

	t.Run("panics for different currencies", func(t *testing.T) {
		m1, _ := NewMoneyFromFloat(100, INR)
		m2, _ := NewMoneyFromFloat(50, USD)
		assert.Panics(t, func() {
			m1.MustAdd(m2)
		})
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		m1 := NewMoneyINRFromFloat(100.50)
		m2 := NewMoneyINRFromFloat(50.25)
		result, err := m1.Subtract(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(50.25)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoneyFromFloat(100, INR)
		m2, _ := NewMoneyFromFloat(50, USD)
		_, err := m1.Subtract(m2)
		assert.Error(t, err)
	})
}

func TestMoneyMultiply(t *testing.T) {
	m := NewMoneyINRFromFloat(100)
	result := m.Multiply(decimal.NewFromFloat(1.5))
	assert.Equal(t, 150.0, result.Float64())
}

func TestMoneyNegate(t *testing.T) {
	m := NewMoneyINRFromFloat(100)
	result := m.Negate()
	assert.Equal(t, -100.0, result.Float64())
	assert.Equal(t, INR, result.Currency())
}

func TestMoneyAbs(t *testing.T) {
	negative := NewMoneyINRFromFloat(-100)
	result := negative.Abs()
	assert.Equal(t, 100.0, result.Float64())
}

func TestMoneyRoundMinor(t *testing.T) {
	t.Run("rounds half up", func(t *testing.T) {
		m := NewMoneyINRFromFloat(100.455)
		assert.Equal(t, "100.46", m.RoundMinor().StringFixed(2))
	})

	t.Run("rounds down below midpoint", func(t *testing.T) {
		m := NewMoneyINRFromFloat(100.454)
		assert.Equal(t, "100.45", m.RoundMinor().StringFixed(2))
	})
}

func TestMoneyPercentageOf(t *testing.T) {
	m := NewMoneyINRFromFloat(200)
	result := m.PercentageOf(decimal.NewFromInt(18))
	assert.Equal(t, 36.0, result.Float64())
}

func TestMoneyComparisons(t *testing.T) {
	m100 := NewMoneyINRFromFloat(100)
	m50 := NewMoneyINRFromFloat(50)
	m100b := NewMoneyINRFromFloat(100)

	t.Run("equals", func(t *testing.T) {
		assert.True(t, m100.Equals(m100b))
		assert.False(t, m100.Equals(m50))
	})

	t.Run("less than", func(t *testing.T) {
		result, err := m50.LessThan(m100)
		require.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("greater than", func(t *testing.T) {
		result, err := m100.GreaterThan(m50)
		require.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("comparison fails for different currencies", func(t *testing.T) {
		usd, _ := NewMoneyFromFloat(100, USD)
		_, err := m100.LessThan(usd)
		assert.Error(t, err)
	})
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyINRFromFloat(123.45)
	assert.Equal(t, "123.45 INR", m.String())
}

func TestMoneyJSON(t *testing.T) {
	original := NewMoneyINRFromFloat(99.99)

	t.Run("marshal", func(t *testing.T) {
		data, err := json.Marshal(original)
		require.NoError(t, err)
		assert.Contains(t, string(data), "99.99")
		assert.Contains(t, string(data), "INR")
	})

	t.Run("unmarshal", func(t *testing.T) {
		data := `{"amount":"123.45","currency":"USD"}`
		var m Money
		err := json.Unmarshal([]byte(data), &m)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scan string", func(t *testing.T) {
		var m Money
		err := m.Scan("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scan bytes", func(t *testing.T) {
		var m Money
		err := m.Scan([]byte("99.99"))
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
	})

	t.Run("scan nil", func(t *testing.T) {
		var m Money
		err := m.Scan(nil)
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("scan invalid type", func(t *testing.T) {
		var m Money
		err := m.Scan(true)
		assert.Error(t, err)
	})
}

func TestMoneyValue(t *testing.T) {
	m := NewMoneyINRFromFloat(123.45)
	val, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "123.45", val)
}
