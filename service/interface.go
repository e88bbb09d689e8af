package service

import "context"

type ServiceInterface interface {
	ListSales(ctx context.Context, params map[string][]string) ([]SaleDTO, error)
	GetSale(ctx context.Context, id int64) (SaleDTO, error)
	CreateSale(ctx context.Context, req CreateSaleRequest) (int64, error)
	UpdateSale(ctx context.Context, id int64, req UpdateSaleRequest) (SaleDTO, error)
	DeleteSale(ctx context.Context, id int64) (SaleDTO, error)

	GetSaleProducts(ctx context.Context, saleID int64) (SaleDetailDTO, error)
	AddSaleProduct(ctx context.Context, saleID int64, req AddSaleProductRequest) (SaleDetailDTO, error)
	UpdateSaleProduct(ctx context.Context, saleID, productID int64, req UpdateSaleProductRequest) (LineItemDTO, error)
	DeleteSaleProduct(ctx context.Context, saleID, productID int64) (LineItemDTO, error)

	ListCities(ctx context.Context) ([]CityDTO, error)
	GetCity(ctx context.Context, id int64) (CityDTO, error)
	CreateCity(ctx context.Context, req CityRequest) (int64, error)
	UpdateCity(ctx context.Context, id int64, req CityPatchRequest) (CityDTO, error)
	DeleteCity(ctx context.Context, id int64) (CityDTO, error)

	ListStores(ctx context.Context) ([]StoreDTO, error)
	GetStore(ctx context.Context, id int64) (StoreDTO, error)
	CreateStore(ctx context.Context, req StoreRequest) (int64, error)
	UpdateStore(ctx context.Context, id int64, req StorePatchRequest) (StoreDTO, error)
	DeleteStore(ctx context.Context, id int64) (StoreDTO, error)

	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int64) (ProductDTO, error)
	CreateProduct(ctx context.Context, req ProductRequest) (int64, error)
	UpdateProduct(ctx context.Context, id int64, req ProductPatchRequest) (ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) (ProductDTO, error)
}

var _ ServiceInterface = (*Service)(nil)
