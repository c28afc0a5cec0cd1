package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"agrostock_backend/internal/models"
	"agrostock_backend/internal/repositories"
	"agrostock_backend/pkg/utils"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product already exists")
)

// CreateProductRequest creates a catalog category.
type CreateProductRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateVarietyRequest creates a variety under an existing product.
// New varieties always start at zero stock; stock only moves through the ledger.
type CreateVarietyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ProductID   int64  `json:"product_id" binding:"required"`
}

// CatalogService manages products and varieties. Both live indefinitely
// once created; there is no deletion path.
type CatalogService interface {
	CreateProduct(req CreateProductRequest) (int64, error)
	GetProducts() ([]models.Product, error)
	CreateVariety(req CreateVarietyRequest) (int64, error)
	GetVarieties() ([]models.Variety, error)
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	db          *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(cr repositories.CatalogRepository, db *sql.DB) CatalogService {
	return &catalogService{catalogRepo: cr, db: db}
}

func (s *catalogService) CreateProduct(req CreateProductRequest) (int64, error) {
	if utils.IsEmpty(req.Name) {
		return 0, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	name := strings.TrimSpace(req.Name)

	product := models.Product{Name: name}
	id, err := s.catalogRepo.CreateProduct(s.db, &product)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return 0, fmt.Errorf("%w: '%s'", ErrDuplicateProduct, name)
		}
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (s *catalogService) GetProducts() ([]models.Product, error) {
	products, err := s.catalogRepo.GetProducts()
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

func (s *catalogService) CreateVariety(req CreateVarietyRequest) (int64, error) {
	if utils.IsEmpty(req.Name) {
		return 0, fmt.Errorf("%w: variety name cannot be empty", ErrValidation)
	}

	variety := models.Variety{
		Name:        strings.TrimSpace(req.Name),
		Description: utils.NewNullString(strings.TrimSpace(req.Description)),
		ProductID:   req.ProductID,
	}

	id, err := s.catalogRepo.CreateVariety(s.db, &variety)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, fmt.Errorf("%w: id %d", ErrProductNotFound, req.ProductID)
		}
		return 0, fmt.Errorf("failed to create variety: %w", err)
	}
	return id, nil
}

func (s *catalogService) GetVarieties() ([]models.Variety, error) {
	varieties, err := s.catalogRepo.GetVarieties()
	if err != nil {
		return nil, fmt.Errorf("failed to get varieties: %w", err)
	}
	return varieties, nil
}
