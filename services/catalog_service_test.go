package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/services"
)

func newCatalogFixture() (*mockProductRepo, services.CatalogService) {
	logger, _ := zap.NewDevelopment()
	repo := newMockProductRepo()
	return repo, services.NewCatalogService(repo, nil, logger)
}

func TestCreateProductDefaultsToPhysical(t *testing.T) {
	_, svc := newCatalogFixture()

	product, svcErr := svc.CreateProduct(context.Background(), &models.CreateProductRequest{
		StoreID:       uuid.New(),
		Name:          "Widget",
		Price:         12.50,
		StockQuantity: 10,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.ProductTypePhysical, product.Type)
	assert.True(t, product.Active)
}

func TestResolvePriceVariantOverride(t *testing.T) {
	repo, svc := newCatalogFixture()
	product := &models.Product{
		ID:      uuid.New(),
		StoreID: uuid.New(),
		Name:    "Hoodie",
		Type:    models.ProductTypePhysical,
		Price:   30,
		Active:  true,
	}
	repo.products[product.ID] = product

	variantPrice := 35.0
	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "XL",
		Price:     &variantPrice,
	}
	repo.variants[variant.ID] = variant

	base, svcErr := svc.ResolvePrice(context.Background(), product.ID, nil)
	assert.Nil(t, svcErr)
	assert.Equal(t, 30.0, base.Price)
	assert.Equal(t, "Hoodie", base.ProductName)

	resolved, svcErr := svc.ResolvePrice(context.Background(), product.ID, &variant.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, 35.0, resolved.Price)
}

func TestResolvePriceVariantWithoutOwnPrice(t *testing.T) {
	repo, svc := newCatalogFixture()
	product := &models.Product{
		ID:     uuid.New(),
		Name:   "Hoodie",
		Type:   models.ProductTypePhysical,
		Price:  30,
		Active: true,
	}
	repo.products[product.ID] = product
	variant := &models.ProductVariant{ID: uuid.New(), ProductID: product.ID, Name: "M"}
	repo.variants[variant.ID] = variant

	resolved, svcErr := svc.ResolvePrice(context.Background(), product.ID, &variant.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, 30.0, resolved.Price)
}

func TestResolvePriceForeignVariantRejected(t *testing.T) {
	repo, svc := newCatalogFixture()
	product := &models.Product{ID: uuid.New(), Name: "A", Type: models.ProductTypePhysical, Price: 10, Active: true}
	other := &models.Product{ID: uuid.New(), Name: "B", Type: models.ProductTypePhysical, Price: 20, Active: true}
	repo.products[product.ID] = product
	repo.products[other.ID] = other
	variant := &models.ProductVariant{ID: uuid.New(), ProductID: other.ID, Name: "M"}
	repo.variants[variant.ID] = variant

	_, svcErr := svc.ResolvePrice(context.Background(), product.ID, &variant.ID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestDecreaseStockGuardsOversell(t *testing.T) {
	repo, svc := newCatalogFixture()
	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Widget",
		Type:          models.ProductTypePhysical,
		Price:         10,
		StockQuantity: 3,
		Active:        true,
	}
	repo.products[product.ID] = product

	svcErr := svc.DecreaseStock(context.Background(), product.ID, nil, 2)
	assert.Nil(t, svcErr)
	assert.Equal(t, 1, product.StockQuantity)

	svcErr = svc.DecreaseStock(context.Background(), product.ID, nil, 2)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 1, product.StockQuantity)
}

func TestDecreaseStockSkipsDigital(t *testing.T) {
	repo, svc := newCatalogFixture()
	product := &models.Product{
		ID:     uuid.New(),
		Name:   "Ebook",
		Type:   models.ProductTypeDigital,
		Price:  5,
		Active: true,
	}
	repo.products[product.ID] = product

	svcErr := svc.DecreaseStock(context.Background(), product.ID, nil, 100)
	assert.Nil(t, svcErr)
	assert.Equal(t, 0, product.StockQuantity)
}
