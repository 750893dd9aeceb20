package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestExpensesAdd(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	var e Expenses

	a, err := e.Add(now, "Dining", "Coffee", dec("15"))
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_000), a.ID)

	b, err := e.Add(now, "Dining", "Bagel", dec("4.50"))
	require.NoError(t, err)
	assert.Equal(t, a.ID+1, b.ID)

	require.Len(t, e, 2)
	assert.Equal(t, "Coffee", e[0].Name)
	assert.True(t, e.Total().Equal(dec("19.5")))
}

func TestExpensesAddValidation(t *testing.T) {
	var e Expenses
	now := time.Now()
	cases := []struct {
		category, name, amount string
	}{
		{"", "Coffee", "15"},
		{"Dining", "  ", "15"},
		{"Dining", "Coffee", "0"},
	}
	for _, tc := range cases {
		_, err := e.Add(now, tc.category, tc.name, dec(tc.amount))
		assert.ErrorIs(t, err, ErrIncompleteExpense)
	}
	_, err := e.Add(now, "Dining", "Refund", dec("-3"))
	assert.ErrorIs(t, err, core.ErrNegativeAmount)
	assert.Empty(t, e)
}

func TestExpensesUpdateAndRemove(t *testing.T) {
	var e Expenses
	x, err := e.Add(time.Now(), "Dining", "Coffee", dec("15"))
	require.NoError(t, err)

	require.NoError(t, e.Update(x.ID, "name", "Latte"))
	require.NoError(t, e.Update(x.ID, "amount", "6.25"))
	assert.Equal(t, "Latte", e[0].Name)
	assert.True(t, e[0].Amount.Equal(dec("6.25")))

	require.NoError(t, e.Update(x.ID, "amount", "lots"))
	assert.True(t, e[0].Amount.IsZero())
	require.NoError(t, e.Update(x.ID, "amount", "-4"))
	assert.True(t, e[0].Amount.IsZero())

	assert.ErrorIs(t, e.Update(x.ID, "colour", "red"), ErrUnknownField)
	assert.ErrorIs(t, e.Update(42, "name", "x"), ErrExpenseNotFound)

	require.NoError(t, e.Remove(x.ID))
	assert.Empty(t, e)
	assert.ErrorIs(t, e.Remove(x.ID), ErrExpenseNotFound)
}

func TestExpensesClone(t *testing.T) {
	var e Expenses
	_, err := e.Add(time.Now(), "Dining", "Coffee", dec("15"))
	require.NoError(t, err)

	c := e.Clone()
	c[0].Name = "Tea"
	assert.Equal(t, "Coffee", e[0].Name)
	assert.NotNil(t, Expenses(nil).Clone())
}
