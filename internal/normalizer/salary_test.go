package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/models"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		min, max float64
		currency string
		period   models.SalaryPeriod
	}{
		{"currency range", "$80,378 - $105,656", 80378, 105656, "AUD", models.PeriodYearly},
		{"k shorthand on upper bound", "80-100k", 80000, 100000, "AUD", models.PeriodYearly},
		{"hourly range", "$45 - $50 per hour", 45, 50, "AUD", models.PeriodHourly},
		{"weekly single", "$1,200 per week", 1200, 1200, "AUD", models.PeriodWeekly},
		{"zero bound dropped", "$0 - $90,000", 90000, 90000, "AUD", models.PeriodYearly},
		{"super percentage ignored", "$95,000 + 11.5% super", 95000, 95000, "AUD", models.PeriodYearly},
		{"k with dollar", "$120k per annum", 120000, 120000, "AUD", models.PeriodYearly},
		{"classification number ignored", "Level 5 $80,000 - $90,000 p.a.", 80000, 90000, "AUD", models.PeriodYearly},
		{"reversed bounds swapped", "$105,656 - $80,378", 80378, 105656, "AUD", models.PeriodYearly},
		{"usd", "USD 100,000", 100000, 100000, "USD", models.PeriodYearly},
		{"daily rate", "$650 per day", 650, 650, "AUD", models.PeriodDaily},
		{"unprefixed upper bound", "$50 - 60 per hour", 50, 60, "AUD", models.PeriodHourly},
		{"k on unprefixed upper bound", "$95 - 105k", 95000, 105000, "AUD", models.PeriodYearly},
		{"unprefixed upper bound with super", "$80,000 - 95,000 + super", 80000, 95000, "AUD", models.PeriodYearly},
		{"to as range separator", "$1,200 to 1,400 per week", 1200, 1400, "AUD", models.PeriodWeekly},
		{"unrelated number after currency", "$45 per hour, 38 hours", 45, 45, "AUD", models.PeriodHourly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSalary(tt.input)
			require.NotNil(t, got.Min)
			require.NotNil(t, got.Max)
			assert.Equal(t, tt.min, *got.Min)
			assert.Equal(t, tt.max, *got.Max)
			assert.Equal(t, tt.currency, got.Currency)
			assert.Equal(t, tt.period, got.Period)
			assert.Equal(t, tt.input, got.RawText)
		})
	}
}

func TestParseSalary_Degrades(t *testing.T) {
	for _, input := range []string{"", "   ", "Competitive", "Negotiable + super"} {
		t.Run(input, func(t *testing.T) {
			got := ParseSalary(input)
			assert.Nil(t, got.Min)
			assert.Nil(t, got.Max)
			assert.Equal(t, models.DefaultCurrency, got.Currency)
			assert.Equal(t, models.PeriodYearly, got.Period)
		})
	}
}

func TestParseSalary_MinNotAboveMax(t *testing.T) {
	inputs := []string{
		"$70,000 - $60,000",
		"$1 - $2",
		"$150k - $90k",
		"Between $55.50 and $48.25 an hour",
	}
	for _, input := range inputs {
		got := ParseSalary(input)
		require.NotNil(t, got.Min, input)
		require.NotNil(t, got.Max, input)
		assert.LessOrEqual(t, *got.Min, *got.Max, input)
		assert.Equal(t, "AUD", got.Currency, input)
	}
}

func TestParseSalary_LongRawTextTruncated(t *testing.T) {
	long := "$80,000 "
	for len(long) < 300 {
		long += "plus generous benefits "
	}
	got := ParseSalary(long)
	assert.Len(t, []rune(got.RawText), MaxRawSalary)
}
