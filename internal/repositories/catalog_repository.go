package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agrostock_backend/internal/models"

	"github.com/lib/pq"
)

// CatalogRepository defines the interface for product/variety database operations,
// including the stock column the ledger maintains.
type CatalogRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProducts() ([]models.Product, error)
	FindProductByName(executor SQLExecutor, name string) (*models.Product, error)

	CreateVariety(executor SQLExecutor, variety *models.Variety) (int64, error)
	GetVarieties() ([]models.Variety, error)

	// LockStock acquires a row lock on the variety and returns its current
	// stock_on_hand. Must be called inside the transaction that will adjust it.
	LockStock(tx *sql.Tx, varietyID int64) (float64, error)
	// AdjustStock applies a signed delta to stock_on_hand and returns the new value.
	AdjustStock(executor SQLExecutor, varietyID int64, delta float64) (float64, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, created_at) VALUES ($1, $2) RETURNING id`
	err := executor.QueryRow(query, product.Name, time.Now()).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: product name '%s' already exists", ErrDuplicateKey, product.Name)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *catalogRepository) GetProducts() ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT id, name, created_at FROM products ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *catalogRepository) FindProductByName(executor SQLExecutor, name string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT id, name, created_at FROM products WHERE UPPER(name) = UPPER($1)`
	err := executor.QueryRow(query, name).Scan(&product.ID, &product.Name, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding product by name '%s': %v", ErrDatabaseError, name, err)
	}
	return product, nil
}

func (r *catalogRepository) CreateVariety(executor SQLExecutor, variety *models.Variety) (int64, error) {
	query := `INSERT INTO varieties (name, description, product_id, stock_on_hand, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query,
		variety.Name, variety.Description, variety.ProductID, variety.StockOnHand, time.Now(),
	).Scan(&variety.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: product %d", ErrNotFound, variety.ProductID)
		}
		return 0, fmt.Errorf("%w: creating variety: %v", ErrDatabaseError, err)
	}
	return variety.ID, nil
}

func (r *catalogRepository) GetVarieties() ([]models.Variety, error) {
	varieties := []models.Variety{}
	query := `SELECT v.id, v.name, v.description, v.product_id, p.name, v.stock_on_hand, v.created_at
	          FROM varieties v
	          JOIN products p ON v.product_id = p.id
	          ORDER BY v.name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting varieties: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var variety models.Variety
		var description sql.NullString
		if err := rows.Scan(
			&variety.ID, &variety.Name, &description, &variety.ProductID,
			&variety.ProductName, &variety.StockOnHand, &variety.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning variety: %v", ErrDatabaseError, err)
		}
		if description.Valid {
			variety.Description = &description.String
		}
		varieties = append(varieties, variety)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating varieties: %v", ErrDatabaseError, err)
	}
	return varieties, nil
}

func (r *catalogRepository) LockStock(tx *sql.Tx, varietyID int64) (float64, error) {
	var stock float64
	query := `SELECT stock_on_hand FROM varieties WHERE id = $1 FOR UPDATE`
	err := tx.QueryRow(query, varietyID).Scan(&stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: locking stock for variety %d: %v", ErrDatabaseError, varietyID, err)
	}
	return stock, nil
}

func (r *catalogRepository) AdjustStock(executor SQLExecutor, varietyID int64, delta float64) (float64, error) {
	var newStock float64
	query := `UPDATE varieties SET stock_on_hand = stock_on_hand + $1 WHERE id = $2 RETURNING stock_on_hand`
	err := executor.QueryRow(query, delta, varietyID).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for variety %d by %.2f: %v", ErrDatabaseError, varietyID, delta, err)
	}
	return newStock, nil
}
