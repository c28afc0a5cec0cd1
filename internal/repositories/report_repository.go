package repositories

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"agrostock_backend/internal/models"
)

// DepletionInput is the raw material for the stock-depletion forecast:
// current stock plus the trailing average sale quantity per variety.
type DepletionInput struct {
	VarietyName  string
	StockOnHand  float64
	AvgDailySale float64
}

// TrendInput is the raw regression output for one variety's sales.
// Slope and R2 are NULL when the variety has too few sales to regress.
type TrendInput struct {
	VarietyName string
	Slope       sql.NullFloat64
	R2          sql.NullFloat64
}

// ReportRepository computes the read-only dashboard aggregates. Every method
// recomputes from the event tables on demand; a nil cutoff means all-time.
type ReportRepository interface {
	GlobalStats(cutoff *time.Time) (*models.GlobalStats, error)
	DailyActivity(cutoff *time.Time) ([]models.DailyActivity, error)
	SalesEvolution(cutoff *time.Time) ([]models.DailyRevenue, error)
	RevenueByProduct(cutoff *time.Time) ([]models.ProductRevenue, error)
	TopVarieties(cutoff *time.Time, limit int) ([]models.VarietyRevenue, error)
	YieldDetail(search *string, cutoff *time.Time) ([]models.YieldDetail, error)
	LowStockAlerts(threshold float64) ([]models.StockAlert, error)
	DepletionInputs(since time.Time) ([]DepletionInput, error)
	TrendInputs() ([]TrendInput, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GlobalStats(cutoff *time.Time) (*models.GlobalStats, error) {
	stats := &models.GlobalStats{}
	var soldKg float64
	query := `SELECT
	    (SELECT COALESCE(SUM(quantity_kg), 0) FROM harvests WHERE $1::timestamptz IS NULL OR occurred_at >= $1),
	    (SELECT COALESCE(SUM(quantity_kg), 0) FROM sales WHERE $1::timestamptz IS NULL OR occurred_at >= $1),
	    (SELECT COALESCE(SUM(quantity_kg * unit_price), 0) FROM sales WHERE $1::timestamptz IS NULL OR occurred_at >= $1),
	    (SELECT COALESCE(SUM(quantity_kg), 0) FROM losses WHERE $1::timestamptz IS NULL OR occurred_at >= $1),
	    (SELECT COALESCE(SUM(v.stock_on_hand * (
	        SELECT COALESCE(AVG(s.unit_price), 0) FROM sales s WHERE s.variety_id = v.id
	    )), 0) FROM varieties v)`
	err := r.db.QueryRow(query, cutoff).Scan(
		&stats.TotalHarvestedKg, &soldKg, &stats.TotalRevenue,
		&stats.TotalLossKg, &stats.EstimatedStockValue,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: getting global stats: %v", ErrDatabaseError, err)
	}
	if stats.TotalHarvestedKg > 0 {
		stats.SellThroughRate = roundTo(soldKg/stats.TotalHarvestedKg*100, 2)
	}
	return stats, nil
}

func (r *reportRepository) DailyActivity(cutoff *time.Time) ([]models.DailyActivity, error) {
	series := []models.DailyActivity{}
	query := `SELECT day,
	       SUM(harvested_kg), SUM(sold_kg), SUM(revenue), SUM(lost_kg)
	  FROM (
	    SELECT to_char(occurred_at, 'YYYY-MM-DD') AS day,
	           quantity_kg AS harvested_kg, 0::numeric AS sold_kg, 0::numeric AS revenue, 0::numeric AS lost_kg
	      FROM harvests WHERE $1::timestamptz IS NULL OR occurred_at >= $1
	    UNION ALL
	    SELECT to_char(occurred_at, 'YYYY-MM-DD'),
	           0::numeric, quantity_kg, quantity_kg * unit_price, 0::numeric
	      FROM sales WHERE $1::timestamptz IS NULL OR occurred_at >= $1
	    UNION ALL
	    SELECT to_char(occurred_at, 'YYYY-MM-DD'),
	           0::numeric, 0::numeric, 0::numeric, quantity_kg
	      FROM losses WHERE $1::timestamptz IS NULL OR occurred_at >= $1
	  ) events
	  GROUP BY day
	  ORDER BY day ASC`
	rows, err := r.db.Query(query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: getting daily activity: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var day models.DailyActivity
		if err := rows.Scan(&day.Day, &day.HarvestedKg, &day.SoldKg, &day.Revenue, &day.LostKg); err != nil {
			return nil, fmt.Errorf("%w: scanning daily activity: %v", ErrDatabaseError, err)
		}
		series = append(series, day)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating daily activity: %v", ErrDatabaseError, err)
	}
	return series, nil
}

func (r *reportRepository) SalesEvolution(cutoff *time.Time) ([]models.DailyRevenue, error) {
	series := []models.DailyRevenue{}
	query := `SELECT to_char(occurred_at, 'YYYY-MM-DD') AS day, SUM(quantity_kg * unit_price)
	          FROM sales
	          WHERE $1::timestamptz IS NULL OR occurred_at >= $1
	          GROUP BY to_char(occurred_at, 'YYYY-MM-DD')
	          ORDER BY day ASC`
	rows, err := r.db.Query(query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: getting sales evolution: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var day models.DailyRevenue
		if err := rows.Scan(&day.Day, &day.Revenue); err != nil {
			return nil, fmt.Errorf("%w: scanning sales evolution: %v", ErrDatabaseError, err)
		}
		series = append(series, day)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales evolution: %v", ErrDatabaseError, err)
	}
	return series, nil
}

func (r *reportRepository) RevenueByProduct(cutoff *time.Time) ([]models.ProductRevenue, error) {
	totals := []models.ProductRevenue{}
	query := `SELECT p.name, SUM(s.quantity_kg * s.unit_price)
	          FROM sales s
	          JOIN varieties v ON s.variety_id = v.id
	          JOIN products p ON v.product_id = p.id
	          WHERE $1::timestamptz IS NULL OR s.occurred_at >= $1
	          GROUP BY p.name
	          ORDER BY p.name`
	rows, err := r.db.Query(query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: getting revenue by product: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var total models.ProductRevenue
		if err := rows.Scan(&total.ProductName, &total.Revenue); err != nil {
			return nil, fmt.Errorf("%w: scanning revenue by product: %v", ErrDatabaseError, err)
		}
		totals = append(totals, total)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating revenue by product: %v", ErrDatabaseError, err)
	}
	return totals, nil
}

func (r *reportRepository) TopVarieties(cutoff *time.Time, limit int) ([]models.VarietyRevenue, error) {
	totals := []models.VarietyRevenue{}
	// LEFT JOIN keeps zero-revenue varieties rankable.
	query := `SELECT v.name, COALESCE(SUM(s.quantity_kg * s.unit_price), 0) AS revenue
	          FROM varieties v
	          LEFT JOIN sales s ON s.variety_id = v.id
	            AND ($1::timestamptz IS NULL OR s.occurred_at >= $1)
	          GROUP BY v.name
	          ORDER BY revenue DESC
	          LIMIT $2`
	rows, err := r.db.Query(query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: getting top varieties: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var total models.VarietyRevenue
		if err := rows.Scan(&total.VarietyName, &total.Revenue); err != nil {
			return nil, fmt.Errorf("%w: scanning top variety: %v", ErrDatabaseError, err)
		}
		totals = append(totals, total)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating top varieties: %v", ErrDatabaseError, err)
	}
	return totals, nil
}

func (r *reportRepository) YieldDetail(search *string, cutoff *time.Time) ([]models.YieldDetail, error) {
	details := []models.YieldDetail{}
	query := `SELECT
	    v.id, v.name, p.name,
	    (SELECT COALESCE(SUM(quantity_kg), 0) FROM harvests
	      WHERE variety_id = v.id AND ($2::timestamptz IS NULL OR occurred_at >= $2)),
	    (SELECT COALESCE(SUM(quantity_kg), 0) FROM sales
	      WHERE variety_id = v.id AND ($2::timestamptz IS NULL OR occurred_at >= $2)),
	    (SELECT COALESCE(SUM(quantity_kg), 0) FROM losses
	      WHERE variety_id = v.id AND ($2::timestamptz IS NULL OR occurred_at >= $2)),
	    v.stock_on_hand,
	    (SELECT COALESCE(SUM(quantity_kg * unit_price), 0) FROM sales
	      WHERE variety_id = v.id AND ($2::timestamptz IS NULL OR occurred_at >= $2)) AS revenue
	  FROM varieties v
	  JOIN products p ON v.product_id = p.id
	  WHERE $1::text IS NULL OR v.name ILIKE '%' || $1 || '%' OR p.name ILIKE '%' || $1 || '%'
	  ORDER BY revenue DESC`
	rows, err := r.db.Query(query, search, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: getting yield detail: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var detail models.YieldDetail
		if err := rows.Scan(
			&detail.VarietyID, &detail.VarietyName, &detail.ProductName,
			&detail.HarvestedKg, &detail.SoldKg, &detail.LostKg,
			&detail.StockOnHand, &detail.Revenue,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning yield detail: %v", ErrDatabaseError, err)
		}
		details = append(details, detail)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating yield detail: %v", ErrDatabaseError, err)
	}
	return details, nil
}

func (r *reportRepository) LowStockAlerts(threshold float64) ([]models.StockAlert, error) {
	alerts := []models.StockAlert{}
	query := `SELECT name, stock_on_hand FROM varieties WHERE stock_on_hand < $1 ORDER BY stock_on_hand ASC`
	rows, err := r.db.Query(query, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: getting low-stock alerts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var alert models.StockAlert
		if err := rows.Scan(&alert.VarietyName, &alert.StockOnHand); err != nil {
			return nil, fmt.Errorf("%w: scanning low-stock alert: %v", ErrDatabaseError, err)
		}
		alerts = append(alerts, alert)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low-stock alerts: %v", ErrDatabaseError, err)
	}
	return alerts, nil
}

func (r *reportRepository) DepletionInputs(since time.Time) ([]DepletionInput, error) {
	inputs := []DepletionInput{}
	query := `WITH daily_sales AS (
	    SELECT variety_id, AVG(quantity_kg) AS avg_daily_sale
	    FROM sales
	    WHERE occurred_at >= $1
	    GROUP BY variety_id
	  )
	  SELECT v.name, v.stock_on_hand, COALESCE(ds.avg_daily_sale, 0)
	  FROM varieties v
	  LEFT JOIN daily_sales ds ON ds.variety_id = v.id`
	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, fmt.Errorf("%w: getting depletion inputs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var input DepletionInput
		if err := rows.Scan(&input.VarietyName, &input.StockOnHand, &input.AvgDailySale); err != nil {
			return nil, fmt.Errorf("%w: scanning depletion input: %v", ErrDatabaseError, err)
		}
		inputs = append(inputs, input)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating depletion inputs: %v", ErrDatabaseError, err)
	}
	return inputs, nil
}

func (r *reportRepository) TrendInputs() ([]TrendInput, error) {
	inputs := []TrendInput{}
	// Regression of sale quantity against the sale's Julian day number.
	query := `SELECT v.name,
	       regr_slope(s.quantity_kg::double precision, to_char(s.occurred_at, 'J')::double precision),
	       regr_r2(s.quantity_kg::double precision, to_char(s.occurred_at, 'J')::double precision)
	  FROM varieties v
	  JOIN sales s ON s.variety_id = v.id
	  GROUP BY v.name
	  ORDER BY v.name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting trend inputs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var input TrendInput
		if err := rows.Scan(&input.VarietyName, &input.Slope, &input.R2); err != nil {
			return nil, fmt.Errorf("%w: scanning trend input: %v", ErrDatabaseError, err)
		}
		inputs = append(inputs, input)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating trend inputs: %v", ErrDatabaseError, err)
	}
	return inputs, nil
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
