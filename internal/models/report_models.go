package models

// GlobalStats feeds the KPI cards at the top of the dashboard.
type GlobalStats struct {
	TotalHarvestedKg    float64 `json:"total_harvested_kg"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalLossKg         float64 `json:"total_loss_kg"`
	SellThroughRate     float64 `json:"sell_through_rate"`
	EstimatedStockValue float64 `json:"estimated_stock_value"`
}

// DailyActivity is one day of the combined harvest/sale/loss series.
type DailyActivity struct {
	Day         string  `json:"day"`
	HarvestedKg float64 `json:"harvested_kg"`
	SoldKg      float64 `json:"sold_kg"`
	Revenue     float64 `json:"revenue"`
	LostKg      float64 `json:"lost_kg"`
}

// DailyRevenue is one day of the sales evolution series.
type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

// ProductRevenue is revenue grouped by product.
type ProductRevenue struct {
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
}

// VarietyRevenue is revenue grouped by variety, used for the top-5 ranking.
type VarietyRevenue struct {
	VarietyName string  `json:"variety_name"`
	Revenue     float64 `json:"revenue"`
}

// YieldDetail is the per-variety balance of everything that moved stock.
type YieldDetail struct {
	VarietyID   int64   `json:"variety_id"`
	VarietyName string  `json:"variety_name"`
	ProductName string  `json:"product_name"`
	HarvestedKg float64 `json:"harvested_kg"`
	SoldKg      float64 `json:"sold_kg"`
	LostKg      float64 `json:"lost_kg"`
	StockOnHand float64 `json:"stock_on_hand"`
	Revenue     float64 `json:"revenue"`
}

// StockAlert is a variety whose stock fell under the low-stock threshold.
type StockAlert struct {
	VarietyName string  `json:"variety_name"`
	StockOnHand float64 `json:"stock_on_hand"`
}

// StockForecast estimates how long a variety's stock will last at the
// trailing 30-day sales pace. DaysRemaining holds a large sentinel when
// there were no recent sales; AvgDailySale is 0 in that case so consumers
// can detect the "no forecast possible" state.
type StockForecast struct {
	VarietyName   string  `json:"variety_name"`
	StockOnHand   float64 `json:"stock_on_hand"`
	AvgDailySale  float64 `json:"avg_daily_sale"`
	DaysRemaining int     `json:"days_remaining"`
	Urgency       string  `json:"urgency"`
}

// SalesTrend is the linear-regression trend of a variety's sale quantities.
// Reliability is the regression's R², a 0..1 fit-quality signal.
type SalesTrend struct {
	VarietyName string  `json:"variety_name"`
	Slope       float64 `json:"slope"`
	Reliability float64 `json:"reliability"`
	Trend       string  `json:"trend"`
}
