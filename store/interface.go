package store

import (
	"context"

	"github.com/shopspring/decimal"

	"sales-management/model"
)

// StorePatch and ProductPatch carry partial updates; nil fields are kept.
type StorePatch struct {
	Name   *string
	CityID *int64
}

type ProductPatch struct {
	Name  *string
	Price *decimal.Decimal
}

// Catalog is the city/store/product collaborator of the sales core.
type Catalog interface {
	ListCities(ctx context.Context) ([]model.City, error)
	GetCity(ctx context.Context, id int64) (model.City, error)
	CreateCity(ctx context.Context, name string) (int64, error)
	UpdateCity(ctx context.Context, id int64, name *string) (model.City, error)
	DeleteCity(ctx context.Context, id int64) (model.City, error)

	ListStores(ctx context.Context) ([]model.Store, error)
	GetStore(ctx context.Context, id int64) (model.Store, error)
	CreateStore(ctx context.Context, name string, cityID int64) (int64, error)
	UpdateStore(ctx context.Context, id int64, patch StorePatch) (model.Store, error)
	DeleteStore(ctx context.Context, id int64) (model.Store, error)

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	// GetProductsByIDs may return fewer products than requested.
	GetProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal) (int64, error)
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) (model.Product, error)
}

// Sales persists sales and their line items.
type Sales interface {
	QuerySales(ctx context.Context, filters model.SaleFilters) ([]model.Sale, error)
	GetSale(ctx context.Context, id int64) (model.Sale, error)
	// InsertSale stores the sale and all items atomically.
	InsertSale(ctx context.Context, storeID int64, items []model.LineItem) (int64, error)
	UpdateSaleStore(ctx context.Context, id, storeID int64) (model.Sale, error)
	DeleteSale(ctx context.Context, id int64) error

	ListLineItemDetails(ctx context.Context, saleID int64) ([]model.LineItemDetail, error)
	InsertLineItem(ctx context.Context, item model.LineItem) (model.LineItem, error)
	GetLineItem(ctx context.Context, saleID, productID int64) (model.LineItem, error)
	UpdateLineItemQuantity(ctx context.Context, saleID, productID, quantity int64) (model.LineItem, error)
	DeleteLineItem(ctx context.Context, saleID, productID int64) (model.LineItem, error)
}

type Store interface {
	Catalog
	Sales

	// RunInTx runs fn against a handle bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(Store) error) error
	// RunInReadTx runs fn in a read-only transaction whose statements all
	// see the same snapshot.
	RunInReadTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
	Close() error
}
