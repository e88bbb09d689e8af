package service

import (
	"time"

	"github.com/shopspring/decimal"

	"sales-management/model"
)

// Requests

type SaleProductRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gt=0"`
}

type CreateSaleRequest struct {
	StoreID  int64                `json:"store_id" validate:"required,gt=0"`
	Products []SaleProductRequest `json:"products" validate:"required,min=1,unique=ProductID,dive"`
}

// UpdateSaleRequest moves a sale to another store; a nil StoreID leaves
// the sale unchanged.
type UpdateSaleRequest struct {
	StoreID *int64 `json:"store_id" validate:"omitnil,gt=0"`
}

type AddSaleProductRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gt=0"`
}

type UpdateSaleProductRequest struct {
	Quantity *int64 `json:"quantity" validate:"omitnil,gt=0"`
}

type CityRequest struct {
	Name string `json:"name"`
}

type CityPatchRequest struct {
	Name *string `json:"name"`
}

type StoreRequest struct {
	Name   string `json:"name"`
	CityID int64  `json:"city_id" validate:"required,gt=0"`
}

type StorePatchRequest struct {
	Name   *string `json:"name"`
	CityID *int64  `json:"city_id" validate:"omitnil,gt=0"`
}

type ProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ProductPatchRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// Responses

type CreatedDTO struct {
	ID int64 `json:"id"`
}

type LineItemDTO struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SaleDTO struct {
	ID            int64           `json:"id"`
	StoreID       int64           `json:"store_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Products      []LineItemDTO   `json:"products"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalQuantity int64           `json:"total_quantity"`
}

type ProductDetailDTO struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleDetailDTO is a sale with product names instead of bare ids.
type SaleDetailDTO struct {
	ID              int64              `json:"id"`
	StoreID         int64              `json:"store_id"`
	CreatedAt       time.Time          `json:"created_at"`
	ProductsDetails []ProductDetailDTO `json:"products_details"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	TotalQuantity   int64              `json:"total_quantity"`
}

type CityDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StoreDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	CityID int64  `json:"city_id"`
}

type ProductDTO struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func toLineItemDTO(li model.LineItem) LineItemDTO {
	return LineItemDTO{ProductID: li.ProductID, Quantity: li.Quantity, UnitPrice: li.UnitPrice}
}

func toSaleDTO(s model.Sale) SaleDTO {
	products := make([]LineItemDTO, 0, len(s.LineItems))
	for _, li := range s.LineItems {
		products = append(products, toLineItemDTO(li))
	}
	return SaleDTO{
		ID:            s.ID,
		StoreID:       s.StoreID,
		CreatedAt:     s.CreatedAt,
		Products:      products,
		TotalAmount:   s.TotalAmount(),
		TotalQuantity: s.TotalQuantity(),
	}
}

func toSaleDetailDTO(s model.Sale, details []model.LineItemDetail) SaleDetailDTO {
	items := make([]model.LineItem, 0, len(details))
	products := make([]ProductDetailDTO, 0, len(details))
	for _, d := range details {
		items = append(items, d.LineItem)
		products = append(products, ProductDetailDTO{
			ID:        d.ProductID,
			Name:      d.ProductName,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		})
	}
	return SaleDetailDTO{
		ID:              s.ID,
		StoreID:         s.StoreID,
		CreatedAt:       s.CreatedAt,
		ProductsDetails: products,
		TotalAmount:     model.TotalAmount(items),
		TotalQuantity:   model.TotalQuantity(items),
	}
}

func toCityDTO(c model.City) CityDTO {
	return CityDTO{ID: c.ID, Name: c.Name}
}

func toStoreDTO(st model.Store) StoreDTO {
	return StoreDTO{ID: st.ID, Name: st.Name, CityID: st.CityID}
}

func toProductDTO(p model.Product) ProductDTO {
	return ProductDTO{ID: p.ID, Name: p.Name, Price: p.Price}
}
