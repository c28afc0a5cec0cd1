package services

import (
	"database/sql"
	"testing"
	"time"

	"agrostock_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertHarvestAt(t *testing.T, db *sql.DB, varietyID int64, qty float64, at time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO harvests (variety_id, quantity_kg, occurred_at) VALUES ($1, $2, $3)`,
		varietyID, qty, at)
	require.NoError(t, err)
}

func insertSaleAt(t *testing.T, db *sql.DB, varietyID int64, qty, price float64, at time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO sales (variety_id, quantity_kg, unit_price, occurred_at) VALUES ($1, $2, $3, $4)`,
		varietyID, qty, price, at)
	require.NoError(t, err)
}

func insertLossAt(t *testing.T, db *sql.DB, varietyID int64, qty float64, at time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO losses (variety_id, quantity_kg, occurred_at) VALUES ($1, $2, $3)`,
		varietyID, qty, at)
	require.NoError(t, err)
}

// dayString asks Postgres for the calendar-day label of a timestamp so the
// assertions agree with the server timezone used by the grouping queries.
func dayString(t *testing.T, db *sql.DB, at time.Time) string {
	t.Helper()
	var day string
	require.NoError(t, db.QueryRow(`SELECT to_char($1::timestamptz, 'YYYY-MM-DD')`, at).Scan(&day))
	return day
}

// TestDashboardAggregates backfills events at known timestamps and checks the
// time-series, grouping and regression queries against hand-computed values.
func TestDashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	service := NewReportService(repositories.NewReportRepository(db), 10)

	redCabbage := seedVariety(t, db, "Cabbage", "Red Cabbage")
	savoy := seedVariety(t, db, "Cabbage", "Savoy")
	seedVariety(t, db, "Carrot", "Nantes") // stays silent in every series

	dayOld := time.Now().AddDate(0, 0, -400)
	day1 := time.Now().AddDate(0, 0, -2)
	day2 := time.Now().AddDate(0, 0, -1)

	insertHarvestAt(t, db, redCabbage, 100, day1)
	insertSaleAt(t, db, redCabbage, 10, 100, day1)
	insertSaleAt(t, db, redCabbage, 20, 100, day2)
	insertLossAt(t, db, redCabbage, 5, day2)
	insertSaleAt(t, db, savoy, 5, 50, dayOld)
	insertSaleAt(t, db, savoy, 8, 50, day1)

	t.Run("daily activity", func(t *testing.T) {
		activity, err := service.DailyActivity("")
		require.NoError(t, err)
		require.Len(t, activity, 3)

		assert.Equal(t, dayString(t, db, dayOld), activity[0].Day)
		assert.InDelta(t, 0, activity[0].HarvestedKg, 0.001)
		assert.InDelta(t, 5, activity[0].SoldKg, 0.001)
		assert.InDelta(t, 250, activity[0].Revenue, 0.001)
		assert.InDelta(t, 0, activity[0].LostKg, 0.001)

		assert.Equal(t, dayString(t, db, day1), activity[1].Day)
		assert.InDelta(t, 100, activity[1].HarvestedKg, 0.001)
		assert.InDelta(t, 18, activity[1].SoldKg, 0.001)
		assert.InDelta(t, 1400, activity[1].Revenue, 0.001)
		assert.InDelta(t, 0, activity[1].LostKg, 0.001)

		assert.Equal(t, dayString(t, db, day2), activity[2].Day)
		assert.InDelta(t, 0, activity[2].HarvestedKg, 0.001)
		assert.InDelta(t, 20, activity[2].SoldKg, 0.001)
		assert.InDelta(t, 2000, activity[2].Revenue, 0.001)
		assert.InDelta(t, 5, activity[2].LostKg, 0.001)
	})

	t.Run("daily activity honors the period cutoff", func(t *testing.T) {
		activity, err := service.DailyActivity("year")
		require.NoError(t, err)
		require.Len(t, activity, 2)
		assert.Equal(t, dayString(t, db, day1), activity[0].Day)
	})

	t.Run("sales evolution", func(t *testing.T) {
		evolution, err := service.SalesEvolution("")
		require.NoError(t, err)
		require.Len(t, evolution, 3)
		assert.InDelta(t, 250, evolution[0].Revenue, 0.001)
		assert.InDelta(t, 1400, evolution[1].Revenue, 0.001)
		assert.InDelta(t, 2000, evolution[2].Revenue, 0.001)
	})

	t.Run("revenue by product", func(t *testing.T) {
		totals, err := service.RevenueByProduct("")
		require.NoError(t, err)
		require.Len(t, totals, 1, "Carrot never sold, so only Cabbage appears")
		assert.Equal(t, "Cabbage", totals[0].ProductName)
		assert.InDelta(t, 3650, totals[0].Revenue, 0.001)

		totals, err = service.RevenueByProduct("year")
		require.NoError(t, err)
		require.Len(t, totals, 1)
		assert.InDelta(t, 3400, totals[0].Revenue, 0.001, "the 400-day-old sale falls outside the year window")
	})

	t.Run("top varieties", func(t *testing.T) {
		top, err := service.TopVarieties("")
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "Red Cabbage", top[0].VarietyName)
		assert.InDelta(t, 3000, top[0].Revenue, 0.001)
		assert.Equal(t, "Savoy", top[1].VarietyName)
		assert.InDelta(t, 650, top[1].Revenue, 0.001)
		assert.Equal(t, "Nantes", top[2].VarietyName)
		assert.InDelta(t, 0, top[2].Revenue, 0.001, "zero-revenue varieties still rank")

		top, err = service.TopVarieties("year")
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.InDelta(t, 400, top[1].Revenue, 0.001)
	})

	t.Run("sales trends", func(t *testing.T) {
		trends, err := service.SalesTrends()
		require.NoError(t, err)
		require.Len(t, trends, 2, "Nantes has no sales to regress")

		// Red Cabbage sold 10 then 20 on consecutive days: slope 10/day,
		// perfect two-point fit.
		assert.Equal(t, "Red Cabbage", trends[0].VarietyName)
		assert.InDelta(t, 10, trends[0].Slope, 0.001)
		assert.InDelta(t, 1, trends[0].Reliability, 0.001)
		assert.Equal(t, TrendStrongGrowth, trends[0].Trend)

		// Savoy grew by 3 kg over 398 days: a tiny positive slope.
		assert.Equal(t, "Savoy", trends[1].VarietyName)
		assert.Greater(t, trends[1].Slope, 0.0)
		assert.Less(t, trends[1].Slope, 0.5)
		assert.InDelta(t, 1, trends[1].Reliability, 0.001)
		assert.Equal(t, TrendMildGrowth, trends[1].Trend)
	})

	t.Run("unknown period is rejected", func(t *testing.T) {
		_, err := service.DailyActivity("fortnight")
		assert.ErrorIs(t, err, ErrValidation)
	})
}
