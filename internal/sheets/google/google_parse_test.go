package google

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/core"
)

func column(cells ...string) [][]any {
	out := make([][]any, len(cells))
	for i, c := range cells {
		if c == "" {
			out[i] = []any{}
			continue
		}
		out[i] = []any{c}
	}
	return out
}

func TestFindRow(t *testing.T) {
	col := column("Month", "2024-01", "", "2024-03")

	assert.Equal(t, 2, findRow(col, core.MustMonthKey("2024-01")))
	assert.Equal(t, 4, findRow(col, core.MustMonthKey("2024-03")))
	assert.Equal(t, 0, findRow(col, core.MustMonthKey("2024-02")))
}

func TestNextFreeRow(t *testing.T) {
	tests := []struct {
		name string
		col  [][]any
		want int
	}{
		{"header only", column("Month"), 2},
		{"reuses cleared row", column("Month", "2024-01", "", "2024-03"), 3},
		{"appends", column("Month", "2024-01", "2024-02"), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextFreeRow(tt.col))
		})
	}
}

func TestParseMonths(t *testing.T) {
	col := column("Month", "2024-01", "", "notes", "2024-03")
	assert.Equal(t,
		[]core.MonthKey{core.MustMonthKey("2024-01"), core.MustMonthKey("2024-03")},
		parseMonths(col))
}

func TestRowRange(t *testing.T) {
	assert.Equal(t, "Months!A7:G7", rowRange("Months", 7))
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	got, err := loadCredentials(Config{CredentialsJSON: ` {"type":"service_account"} `})
	assert.NoError(t, err)
	assert.Equal(t, `{"type":"service_account"}`, string(got))

	_, err = loadCredentials(Config{})
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = loadCredentials(Config{CredentialsFile: t.TempDir() + "/absent.json"})
	assert.ErrorContains(t, err, "read service account file")
}
