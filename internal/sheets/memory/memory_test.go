package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

func TestStoreUpsertDeleteList(t *testing.T) {
	ctx := context.Background()
	s := New()

	mar := core.MustMonthKey("2024-03")
	jan := core.MustMonthKey("2024-01")
	require.NoError(t, s.UpsertMonth(ctx, sheets.Row{Month: mar, Income: decimal.NewFromInt(10)}))
	require.NoError(t, s.UpsertMonth(ctx, sheets.Row{Month: jan}))
	require.NoError(t, s.UpsertMonth(ctx, sheets.Row{Month: mar, Income: decimal.NewFromInt(20)}))

	months, err := s.ListMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.MonthKey{jan, mar}, months)

	row, ok := s.Row(mar)
	require.True(t, ok)
	assert.True(t, row.Income.Equal(decimal.NewFromInt(20)))

	require.NoError(t, s.DeleteMonth(ctx, mar))
	require.NoError(t, s.DeleteMonth(ctx, mar), "deleting a missing row is fine")
	assert.Equal(t, 1, s.Len())
}
