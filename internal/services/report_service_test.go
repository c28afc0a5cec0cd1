package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDepletion(t *testing.T) {
	tests := []struct {
		name         string
		stock        float64
		avgDailySale float64
		wantDays     int
		wantUrgency  string
	}{
		{"no recent sales uses sentinel", 50, 0, 999, UrgencyNormal},
		{"negative average treated as no sales", 50, -1, 999, UrgencyNormal},
		{"two days left is critical", 6, 3, 2, UrgencyCritical},
		{"zero stock with sales is critical", 0, 3, 0, UrgencyCritical},
		// 2.6 days rounds up to a displayed 3, but the tier follows the
		// raw quotient and stays critical.
		{"just under three days is critical", 7.8, 3, 3, UrgencyCritical},
		{"three days left is warning", 9, 3, 3, UrgencyWarning},
		{"exactly seven days is warning", 21, 3, 7, UrgencyWarning},
		// 7.33 days displays as 7 but is past the warning boundary.
		{"just over seven days is normal", 22, 3, 7, UrgencyNormal},
		{"eight days left is normal", 24, 3, 8, UrgencyNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, urgency := classifyDepletion(tt.stock, tt.avgDailySale)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantUrgency, urgency)
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		slope float64
		want  string
	}{
		{1.2, TrendStrongGrowth},
		{0.51, TrendStrongGrowth},
		{0.5, TrendMildGrowth},
		{0.01, TrendMildGrowth},
		{0, TrendStable},
		{-0.01, TrendMildDecline},
		{-0.5, TrendMildDecline},
		{-0.51, TrendSharpDecline},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyTrend(tt.slope), "slope %v", tt.slope)
	}
}

func TestPeriodCutoff(t *testing.T) {
	cutoff, err := periodCutoff("")
	require.NoError(t, err)
	assert.Nil(t, cutoff, "no period means all-time")

	tests := []struct {
		period string
		days   int
	}{
		{"month", 30},
		{"quarter", 90},
		{"year", 365},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			cutoff, err := periodCutoff(tt.period)
			require.NoError(t, err)
			require.NotNil(t, cutoff)
			expected := time.Now().AddDate(0, 0, -tt.days)
			assert.WithinDuration(t, expected, *cutoff, time.Minute)
		})
	}

	_, err = periodCutoff("fortnight")
	assert.ErrorIs(t, err, ErrValidation, "unknown keywords must not map to some window")
}
