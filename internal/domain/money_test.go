package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsString(t *testing.T) {
	tests := []struct {
		cents Cents
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{100, "1.00"},
		{3697, "36.97"},
		{129900, "1299.00"},
		{-250, "-2.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cents.String())
	}
}

func TestCentsFromAmount(t *testing.T) {
	assert.Equal(t, Cents(3697), CentsFromAmount(36.97))
	assert.Equal(t, Cents(1000), CentsFromAmount(10))
	// 19.99 is not exactly representable; rounding must absorb that.
	assert.Equal(t, Cents(1999), CentsFromAmount(19.99))
	assert.Equal(t, Cents(1), CentsFromAmount(0.005))
}

func TestCartTotal(t *testing.T) {
	lines := []CartLine{
		{ProductID: 7, Price: 1299, Quantity: 2},
		{ProductID: 9, Price: 500, Quantity: 1},
	}
	assert.Equal(t, Cents(3098), CartTotal(lines))
	assert.Equal(t, Cents(0), CartTotal(nil))
}

func TestOrderStatus(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, OrderStatus("misplaced").Valid())
	assert.False(t, OrderStatus("").Valid())

	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}
