package services

import (
	"database/sql"
	"errors"
	"fmt"

	"agrostock_backend/internal/models"
	"agrostock_backend/internal/repositories"
	"agrostock_backend/pkg/utils"
)

// Business-rule errors. Handlers map these to 4xx responses with the message
// shown verbatim to the operator; anything else is an infrastructure failure.
var (
	ErrValidation        = errors.New("validation error")
	ErrVarietyNotFound   = errors.New("variety not found")
	ErrEventNotFound     = errors.New("stock event not found")
	ErrInsufficientStock = errors.New("insufficient stock for this sale")
	ErrLossExceedsStock  = errors.New("loss exceeds available stock")
	ErrHarvestInUse      = errors.New("harvest quantity already consumed by sales or losses")
)

// --- DTOs ---

// RecordHarvestRequest registers an inflow of freshly harvested stock.
type RecordHarvestRequest struct {
	VarietyID  int64   `json:"variety_id" binding:"required"`
	QuantityKg float64 `json:"quantity_kg" binding:"required,gt=0"`
}

// RecordSaleRequest registers an outflow sold at a unit price.
// UnitPrice is a pointer so an explicit 0 (giveaway price) passes "required".
type RecordSaleRequest struct {
	VarietyID  int64    `json:"variety_id" binding:"required"`
	QuantityKg float64  `json:"quantity_kg" binding:"required,gt=0"`
	UnitPrice  *float64 `json:"unit_price" binding:"required,gte=0"`
}

// RecordLossRequest registers an outflow without revenue (spoilage, damage...).
type RecordLossRequest struct {
	VarietyID  int64   `json:"variety_id" binding:"required"`
	QuantityKg float64 `json:"quantity_kg" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
}

// UpdateEventRequest replaces an event's quantity; the ledger compensates
// stock_on_hand by the signed difference.
type UpdateEventRequest struct {
	QuantityKg float64 `json:"quantity_kg" binding:"required,gt=0"`
}

// --- StockService interface ---

// StockService is the stock ledger: it keeps each variety's stock_on_hand
// equal to the net sum of its persisted harvest/sale/loss events, and
// rejects any mutation that would drive the stock negative. Every operation
// is one transaction spanning the event row and the compensating stock
// update, with the variety row locked for the duration of the check.
type StockService interface {
	RecordHarvest(req RecordHarvestRequest) error
	RecordSale(req RecordSaleRequest) error
	RecordLoss(req RecordLossRequest) error
	UpdateEvent(kind models.EventKind, eventID int64, newQuantityKg float64) error
	DeleteEvent(kind models.EventKind, eventID int64) error

	GetHarvestHistory() ([]models.HarvestRecord, error)
	GetSaleHistory() ([]models.SaleRecord, error)
	GetLossHistory() ([]models.LossRecord, error)
}

type stockService struct {
	catalogRepo repositories.CatalogRepository
	eventRepo   repositories.EventRepository
	db          *sql.DB
}

// NewStockService creates a new instance of StockService.
func NewStockService(
	cr repositories.CatalogRepository,
	er repositories.EventRepository,
	db *sql.DB,
) StockService {
	return &stockService{
		catalogRepo: cr,
		eventRepo:   er,
		db:          db,
	}
}

// shortfallError picks the business error for a stock shortfall caused by an
// event of the given kind. Harvests only cause shortfalls when shrunk or
// deleted after their quantity was consumed downstream.
func shortfallError(kind models.EventKind) error {
	switch kind {
	case models.KindSale:
		return ErrInsufficientStock
	case models.KindLoss:
		return ErrLossExceedsStock
	default:
		return ErrHarvestInUse
	}
}

// applyStockDelta is the single rule shared by record, edit and delete:
// lock the variety row, check the precondition against the locked value,
// apply the signed delta. Callers own the surrounding transaction.
func (s *stockService) applyStockDelta(tx *sql.Tx, kind models.EventKind, varietyID int64, delta float64) error {
	stock, err := s.catalogRepo.LockStock(tx, varietyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrVarietyNotFound, varietyID)
		}
		return fmt.Errorf("failed to lock stock for variety %d: %w", varietyID, err)
	}

	if delta < 0 && stock+delta < 0 {
		return fmt.Errorf("%w: requested %.2f kg, available %.2f kg", shortfallError(kind), -delta, stock)
	}

	if _, err := s.catalogRepo.AdjustStock(tx, varietyID, delta); err != nil {
		return fmt.Errorf("failed to adjust stock for variety %d: %w", varietyID, err)
	}
	return nil
}

func (s *stockService) RecordHarvest(req RecordHarvestRequest) error {
	if req.QuantityKg <= 0 {
		return fmt.Errorf("%w: harvest quantity must be positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.applyStockDelta(tx, models.KindHarvest, req.VarietyID, req.QuantityKg); err != nil {
		return err
	}
	if _, err := s.eventRepo.InsertHarvest(tx, req.VarietyID, req.QuantityKg); err != nil {
		return fmt.Errorf("failed to insert harvest: %w", err)
	}
	return tx.Commit()
}

func (s *stockService) RecordSale(req RecordSaleRequest) error {
	if req.QuantityKg <= 0 {
		return fmt.Errorf("%w: sale quantity must be positive", ErrValidation)
	}
	if req.UnitPrice == nil || *req.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must be zero or positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.applyStockDelta(tx, models.KindSale, req.VarietyID, -req.QuantityKg); err != nil {
		return err
	}
	if _, err := s.eventRepo.InsertSale(tx, req.VarietyID, req.QuantityKg, *req.UnitPrice); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return tx.Commit()
}

func (s *stockService) RecordLoss(req RecordLossRequest) error {
	if req.QuantityKg <= 0 {
		return fmt.Errorf("%w: loss quantity must be positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.applyStockDelta(tx, models.KindLoss, req.VarietyID, -req.QuantityKg); err != nil {
		return err
	}
	if _, err := s.eventRepo.InsertLoss(tx, req.VarietyID, req.QuantityKg, utils.NewNullString(req.Reason)); err != nil {
		return fmt.Errorf("failed to insert loss: %w", err)
	}
	return tx.Commit()
}

func (s *stockService) UpdateEvent(kind models.EventKind, eventID int64, newQuantityKg float64) error {
	if newQuantityKg <= 0 {
		return fmt.Errorf("%w: event quantity must be positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	event, err := s.eventRepo.GetEvent(tx, kind, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s %d", ErrEventNotFound, kind, eventID)
		}
		return fmt.Errorf("failed to fetch %s event %d: %w", kind, eventID, err)
	}

	delta := kind.StockSign() * (newQuantityKg - event.QuantityKg)
	if err := s.applyStockDelta(tx, kind, event.VarietyID, delta); err != nil {
		return err
	}
	if err := s.eventRepo.UpdateEventQuantity(tx, kind, eventID, newQuantityKg); err != nil {
		return fmt.Errorf("failed to update %s event %d: %w", kind, eventID, err)
	}
	return tx.Commit()
}

func (s *stockService) DeleteEvent(kind models.EventKind, eventID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	event, err := s.eventRepo.GetEvent(tx, kind, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s %d", ErrEventNotFound, kind, eventID)
		}
		return fmt.Errorf("failed to fetch %s event %d: %w", kind, eventID, err)
	}

	// Deletion removes the event's contribution: deleting a sale or loss
	// returns its quantity to stock, deleting a harvest takes it back out.
	delta := -kind.StockSign() * event.QuantityKg
	if err := s.applyStockDelta(tx, kind, event.VarietyID, delta); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteEvent(tx, kind, eventID); err != nil {
		return fmt.Errorf("failed to delete %s event %d: %w", kind, eventID, err)
	}
	return tx.Commit()
}

func (s *stockService) GetHarvestHistory() ([]models.HarvestRecord, error) {
	records, err := s.eventRepo.GetHarvestHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to get harvest history: %w", err)
	}
	return records, nil
}

func (s *stockService) GetSaleHistory() ([]models.SaleRecord, error) {
	records, err := s.eventRepo.GetSaleHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to get sale history: %w", err)
	}
	return records, nil
}

func (s *stockService) GetLossHistory() ([]models.LossRecord, error) {
	records, err := s.eventRepo.GetLossHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to get loss history: %w", err)
	}
	return records, nil
}
