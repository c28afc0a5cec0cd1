package services

import (
	"testing"

	"agrostock_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductAndVariety(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repositories.NewCatalogRepository(db), db)

	productID, err := service.CreateProduct(CreateProductRequest{Name: "  Cabbage  "})
	require.NoError(t, err)

	products, err := service.GetProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Cabbage", products[0].Name, "names are stored trimmed")

	_, err = service.CreateVariety(CreateVarietyRequest{
		Name:        "Red Cabbage",
		Description: "Deep purple heads",
		ProductID:   productID,
	})
	require.NoError(t, err)

	varieties, err := service.GetVarieties()
	require.NoError(t, err)
	require.Len(t, varieties, 1)
	assert.Equal(t, "Red Cabbage", varieties[0].Name)
	assert.Equal(t, "Cabbage", varieties[0].ProductName)
	require.NotNil(t, varieties[0].Description)
	assert.Equal(t, "Deep purple heads", *varieties[0].Description)
	assert.Zero(t, varieties[0].StockOnHand, "new varieties start empty")
}

func TestCreateProductRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repositories.NewCatalogRepository(db), db)

	_, err := service.CreateProduct(CreateProductRequest{Name: "Carrot"})
	require.NoError(t, err)

	_, err = service.CreateProduct(CreateProductRequest{Name: "Carrot"})
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestCreateProductRejectsBlankName(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repositories.NewCatalogRepository(db), db)

	_, err := service.CreateProduct(CreateProductRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateVarietyRequiresExistingProduct(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repositories.NewCatalogRepository(db), db)

	_, err := service.CreateVariety(CreateVarietyRequest{Name: "Nantes", ProductID: 9999})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
