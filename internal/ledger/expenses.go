package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var (
	ErrIncompleteExpense = errors.New("expense needs a category, a name and a non-zero amount")
	ErrExpenseNotFound   = errors.New("expense not found")
)

// CustomExpense is an ad-hoc itemized purchase. ID is the creation time in
// Unix milliseconds.
type CustomExpense struct {
	ID       int64           `json:"id"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

// Expenses keeps insertion order.
type Expenses []CustomExpense

// Add appends a new expense. IDs stay unique and increasing even when two
// expenses are added within the same millisecond.
func (e *Expenses) Add(now time.Time, category, name string, amount decimal.Decimal) (CustomExpense, error) {
	category = strings.TrimSpace(category)
	name = strings.TrimSpace(name)
	if category == "" || name == "" || amount.IsZero() {
		return CustomExpense{}, ErrIncompleteExpense
	}
	if amount.IsNegative() {
		return CustomExpense{}, core.ErrNegativeAmount
	}

	id := now.UnixMilli()
	for _, x := range *e {
		if x.ID >= id {
			id = x.ID + 1
		}
	}
	exp := CustomExpense{ID: id, Category: category, Name: name, Amount: amount}
	*e = append(*e, exp)
	return exp, nil
}

// Update changes one field of an expense in place. An amount that does not
// parse, or parses negative, is stored as zero.
func (e Expenses) Update(id int64, field, value string) error {
	i := e.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrExpenseNotFound, id)
	}
	switch field {
	case "category":
		e[i].Category = value
	case "name":
		e[i].Name = value
	case "amount":
		amt := core.ParseAmountOrZero(value)
		if amt.IsNegative() {
			amt = decimal.Zero
		}
		e[i].Amount = amt
	default:
		return fmt.Errorf("%w: expense.%s", ErrUnknownField, field)
	}
	return nil
}

func (e *Expenses) Remove(id int64) error {
	i := e.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrExpenseNotFound, id)
	}
	*e = append((*e)[:i], (*e)[i+1:]...)
	return nil
}

func (e Expenses) Total() decimal.Decimal {
	total := decimal.Zero
	for _, x := range e {
		total = total.Add(x.Amount)
	}
	return total
}

func (e Expenses) Clone() Expenses {
	if e == nil {
		return Expenses{}
	}
	out := make(Expenses, len(e))
	copy(out, e)
	return out
}

func (e Expenses) index(id int64) int {
	for i, x := range e {
		if x.ID == id {
			return i
		}
	}
	return -1
}
