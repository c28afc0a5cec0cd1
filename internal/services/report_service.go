package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"agrostock_backend/internal/models"
	"agrostock_backend/internal/repositories"
	"agrostock_backend/pkg/utils"
)

// Urgency tiers for the stock-depletion forecast.
const (
	UrgencyCritical = "critical"
	UrgencyWarning  = "warning"
	UrgencyNormal   = "normal"
)

// Trend classifications for the sales regression.
const (
	TrendStrongGrowth = "strong_growth"
	TrendMildGrowth   = "mild_growth"
	TrendSharpDecline = "sharp_decline"
	TrendMildDecline  = "mild_decline"
	TrendStable       = "stable"
)

const (
	// depletionSentinelDays stands in for "effectively infinite" when a
	// variety had no sales in the trailing window.
	depletionSentinelDays = 999
	depletionWindowDays   = 30
	topVarietiesLimit     = 5
)

// ReportService computes the dashboard's read-only aggregates. Raw sums and
// regressions come from SQL; classification thresholds are applied here.
type ReportService interface {
	GlobalStats(period string) (*models.GlobalStats, error)
	DailyActivity(period string) ([]models.DailyActivity, error)
	SalesEvolution(period string) ([]models.DailyRevenue, error)
	RevenueByProduct(period string) ([]models.ProductRevenue, error)
	TopVarieties(period string) ([]models.VarietyRevenue, error)
	YieldDetail(search, period string) ([]models.YieldDetail, error)
	LowStockAlerts() ([]models.StockAlert, error)
	UrgentForecasts() ([]models.StockForecast, error)
	SalesTrends() ([]models.SalesTrend, error)
}

type reportService struct {
	reportRepo        repositories.ReportRepository
	lowStockThreshold float64
}

// NewReportService creates a new instance of ReportService.
func NewReportService(rr repositories.ReportRepository, lowStockThreshold float64) ReportService {
	return &reportService{reportRepo: rr, lowStockThreshold: lowStockThreshold}
}

// periodCutoff converts a period keyword to an inclusive lower time bound.
// Empty means all-time; unrecognized keywords are rejected rather than
// silently mapped to some window.
func periodCutoff(period string) (*time.Time, error) {
	var days int
	switch period {
	case "":
		return nil, nil
	case "month":
		days = 30
	case "quarter":
		days = 90
	case "year":
		days = 365
	default:
		return nil, fmt.Errorf("%w: unknown period %q", ErrValidation, period)
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return &cutoff, nil
}

// classifyDepletion turns current stock and a trailing average sale quantity
// into an estimated days-remaining and an urgency tier. Tiers compare the
// raw quotient, so 2.6 days left is still critical; rounding applies only
// to the reported day count. Exactly 7 days is still a warning.
func classifyDepletion(stockOnHand, avgDailySale float64) (int, string) {
	if avgDailySale <= 0 {
		return depletionSentinelDays, UrgencyNormal
	}
	remaining := stockOnHand / avgDailySale
	days := int(math.Round(remaining))
	switch {
	case remaining < 3:
		return days, UrgencyCritical
	case remaining <= 7:
		return days, UrgencyWarning
	default:
		return days, UrgencyNormal
	}
}

// classifyTrend maps a regression slope to a trend label.
func classifyTrend(slope float64) string {
	switch {
	case slope > 0.5:
		return TrendStrongGrowth
	case slope > 0:
		return TrendMildGrowth
	case slope < -0.5:
		return TrendSharpDecline
	case slope < 0:
		return TrendMildDecline
	default:
		return TrendStable
	}
}

func (s *reportService) GlobalStats(period string) (*models.GlobalStats, error) {
	cutoff, err := periodCutoff(period)
	if err != nil {
		return nil, err
	}
	stats, err := s.reportRepo.GlobalStats(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get global stats: %w", err)
	}
	return stats, nil
}

func (s *reportService) DailyActivity(period string) ([]models.DailyActivity, error) {
	cutoff, err := periodCutoff(period)
	if err != nil {
		return nil, err
	}
	series, err := s.reportRepo.DailyActivity(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}
	return series, nil
}

func (s *reportService) SalesEvolution(period string) ([]models.DailyRevenue, error) {
	cutoff, err := periodCutoff(period)
	if err != nil {
		return nil, err
	}
	series, err := s.reportRepo.SalesEvolution(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales evolution: %w", err)
	}
	return series, nil
}

func (s *reportService) RevenueByProduct(period string) ([]models.ProductRevenue, error) {
	cutoff, err := periodCutoff(period)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.RevenueByProduct(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by product: %w", err)
	}
	return totals, nil
}

func (s *reportService) TopVarieties(period string) ([]models.VarietyRevenue, error) {
	cutoff, err := periodCutoff(period)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.TopVarieties(cutoff, topVarietiesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top varieties: %w", err)
	}
	return totals, nil
}

func (s *reportService) YieldDetail(search, period string) ([]models.YieldDetail, error) {
	cutoff, err := periodCutoff(period)
	if err != nil {
		return nil, err
	}
	details, err := s.reportRepo.YieldDetail(utils.NewNullString(search), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get yield detail: %w", err)
	}
	return details, nil
}

func (s *reportService) LowStockAlerts() ([]models.StockAlert, error) {
	alerts, err := s.reportRepo.LowStockAlerts(s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to get low-stock alerts: %w", err)
	}
	return alerts, nil
}

func (s *reportService) UrgentForecasts() ([]models.StockForecast, error) {
	since := time.Now().AddDate(0, 0, -depletionWindowDays)
	inputs, err := s.reportRepo.DepletionInputs(since)
	if err != nil {
		return nil, fmt.Errorf("failed to get depletion inputs: %w", err)
	}

	forecasts := []models.StockForecast{}
	for _, input := range inputs {
		days, urgency := classifyDepletion(input.StockOnHand, input.AvgDailySale)
		if urgency == UrgencyNormal {
			continue
		}
		forecasts = append(forecasts, models.StockForecast{
			VarietyName:   input.VarietyName,
			StockOnHand:   input.StockOnHand,
			AvgDailySale:  math.Round(input.AvgDailySale*100) / 100,
			DaysRemaining: days,
			Urgency:       urgency,
		})
	}
	// Most urgent first.
	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].DaysRemaining < forecasts[j].DaysRemaining
	})
	return forecasts, nil
}

func (s *reportService) SalesTrends() ([]models.SalesTrend, error) {
	inputs, err := s.reportRepo.TrendInputs()
	if err != nil {
		return nil, fmt.Errorf("failed to get trend inputs: %w", err)
	}

	trends := []models.SalesTrend{}
	for _, input := range inputs {
		// A variety with a single sale has no regression; report it as stable
		// with zero reliability rather than dropping it.
		trend := models.SalesTrend{VarietyName: input.VarietyName, Trend: TrendStable}
		if input.Slope.Valid {
			trend.Slope = input.Slope.Float64
			trend.Trend = classifyTrend(input.Slope.Float64)
		}
		if input.R2.Valid {
			trend.Reliability = input.R2.Float64
		}
		trends = append(trends, trend)
	}
	return trends, nil
}
