package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agrostock_backend/internal/models"
)

// EventRepository defines the interface for harvest/sale/loss event rows.
// Events carry no mutable state beyond their quantity; the compensating
// stock arithmetic lives in the stock service.
type EventRepository interface {
	InsertHarvest(executor SQLExecutor, varietyID int64, quantityKg float64) (int64, error)
	InsertSale(executor SQLExecutor, varietyID int64, quantityKg, unitPrice float64) (int64, error)
	InsertLoss(executor SQLExecutor, varietyID int64, quantityKg float64, reason *string) (int64, error)

	GetEvent(executor SQLExecutor, kind models.EventKind, id int64) (*models.StockEvent, error)
	UpdateEventQuantity(executor SQLExecutor, kind models.EventKind, id int64, quantityKg float64) error
	DeleteEvent(executor SQLExecutor, kind models.EventKind, id int64) error

	GetHarvestHistory() ([]models.HarvestRecord, error)
	GetSaleHistory() ([]models.SaleRecord, error)
	GetLossHistory() ([]models.LossRecord, error)
}

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

// eventTable maps an event kind to its table. Table names are interpolated
// into SQL, so the mapping is a closed switch rather than caller input.
func eventTable(kind models.EventKind) (string, error) {
	switch kind {
	case models.KindHarvest:
		return "harvests", nil
	case models.KindSale:
		return "sales", nil
	case models.KindLoss:
		return "losses", nil
	default:
		return "", fmt.Errorf("%w: unknown event kind %q", ErrDatabaseError, kind)
	}
}

func (r *eventRepository) InsertHarvest(executor SQLExecutor, varietyID int64, quantityKg float64) (int64, error) {
	var id int64
	query := `INSERT INTO harvests (variety_id, quantity_kg, occurred_at) VALUES ($1, $2, $3) RETURNING id`
	err := executor.QueryRow(query, varietyID, quantityKg, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting harvest: %v", ErrDatabaseError, err)
	}
	return id, nil
}

func (r *eventRepository) InsertSale(executor SQLExecutor, varietyID int64, quantityKg, unitPrice float64) (int64, error) {
	var id int64
	query := `INSERT INTO sales (variety_id, quantity_kg, unit_price, occurred_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := executor.QueryRow(query, varietyID, quantityKg, unitPrice, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting sale: %v", ErrDatabaseError, err)
	}
	return id, nil
}

func (r *eventRepository) InsertLoss(executor SQLExecutor, varietyID int64, quantityKg float64, reason *string) (int64, error) {
	var id int64
	query := `INSERT INTO losses (variety_id, quantity_kg, reason, occurred_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := executor.QueryRow(query, varietyID, quantityKg, reason, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting loss: %v", ErrDatabaseError, err)
	}
	return id, nil
}

func (r *eventRepository) GetEvent(executor SQLExecutor, kind models.EventKind, id int64) (*models.StockEvent, error) {
	table, err := eventTable(kind)
	if err != nil {
		return nil, err
	}
	event := &models.StockEvent{ID: id, Kind: kind}
	query := fmt.Sprintf(`SELECT variety_id, quantity_kg FROM %s WHERE id = $1`, table)
	err = executor.QueryRow(query, id).Scan(&event.VarietyID, &event.QuantityKg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting %s event %d: %v", ErrDatabaseError, kind, id, err)
	}
	return event, nil
}

func (r *eventRepository) UpdateEventQuantity(executor SQLExecutor, kind models.EventKind, id int64, quantityKg float64) error {
	table, err := eventTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET quantity_kg = $1 WHERE id = $2`, table)
	result, err := executor.Exec(query, quantityKg, id)
	if err != nil {
		return fmt.Errorf("%w: updating %s event %d: %v", ErrDatabaseError, kind, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) DeleteEvent(executor SQLExecutor, kind models.EventKind, id int64) error {
	table, err := eventTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting %s event %d: %v", ErrDatabaseError, kind, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetHarvestHistory() ([]models.HarvestRecord, error) {
	records := []models.HarvestRecord{}
	query := `SELECT h.id, h.variety_id, v.name, p.name, h.quantity_kg, h.occurred_at
	          FROM harvests h
	          JOIN varieties v ON h.variety_id = v.id
	          JOIN products p ON v.product_id = p.id
	          ORDER BY h.occurred_at DESC, h.id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting harvest history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.HarvestRecord
		if err := rows.Scan(&rec.ID, &rec.VarietyID, &rec.VarietyName, &rec.ProductName, &rec.QuantityKg, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("%w: scanning harvest record: %v", ErrDatabaseError, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating harvest history: %v", ErrDatabaseError, err)
	}
	return records, nil
}

func (r *eventRepository) GetSaleHistory() ([]models.SaleRecord, error) {
	records := []models.SaleRecord{}
	query := `SELECT s.id, s.variety_id, v.name, p.name, s.quantity_kg, s.unit_price,
	                 s.quantity_kg * s.unit_price, s.occurred_at
	          FROM sales s
	          JOIN varieties v ON s.variety_id = v.id
	          JOIN products p ON v.product_id = p.id
	          ORDER BY s.occurred_at DESC, s.id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting sale history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.SaleRecord
		if err := rows.Scan(
			&rec.ID, &rec.VarietyID, &rec.VarietyName, &rec.ProductName,
			&rec.QuantityKg, &rec.UnitPrice, &rec.Total, &rec.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning sale record: %v", ErrDatabaseError, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale history: %v", ErrDatabaseError, err)
	}
	return records, nil
}

func (r *eventRepository) GetLossHistory() ([]models.LossRecord, error) {
	records := []models.LossRecord{}
	query := `SELECT l.id, l.variety_id, v.name, p.name, l.quantity_kg, l.reason, l.occurred_at
	          FROM losses l
	          JOIN varieties v ON l.variety_id = v.id
	          JOIN products p ON v.product_id = p.id
	          ORDER BY l.occurred_at DESC, l.id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting loss history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.LossRecord
		var reason sql.NullString
		if err := rows.Scan(&rec.ID, &rec.VarietyID, &rec.VarietyName, &rec.ProductName, &rec.QuantityKg, &reason, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("%w: scanning loss record: %v", ErrDatabaseError, err)
		}
		if reason.Valid {
			rec.Reason = &reason.String
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating loss history: %v", ErrDatabaseError, err)
	}
	return records, nil
}
