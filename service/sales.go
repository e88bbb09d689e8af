package service

import (
	"context"

	"sales-management/model"
	"sales-management/store"
)

// ListSales returns the sales matching the query parameters, ascending by
// id. Unknown parameters are rejected.
func (s *Service) ListSales(ctx context.Context, params map[string][]string) ([]SaleDTO, error) {
	filters, err := model.ParseSaleFilters(params)
	if err != nil {
		return nil, err
	}
	sales, err := s.store.QuerySales(ctx, filters)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSaleQuery(len(sales))

	out := make([]SaleDTO, 0, len(sales))
	for _, sale := range sales {
		out = append(out, toSaleDTO(sale))
	}
	return out, nil
}

func (s *Service) GetSale(ctx context.Context, id int64) (SaleDTO, error) {
	sale, err := s.store.GetSale(ctx, id)
	if err != nil {
		return SaleDTO{}, err
	}
	return toSaleDTO(sale), nil
}

// CreateSale snapshots the current price of every requested product and
// stores the sale with all its line items, or nothing at all.
func (s *Service) CreateSale(ctx context.Context, req CreateSaleRequest) (id int64, err error) {
	defer func() { s.metrics.RecordSaleOperation("create", err) }()

	if err := s.validate(req); err != nil {
		return 0, err
	}

	inputs := make([]model.ItemInput, 0, len(req.Products))
	ids := make([]int64, 0, len(req.Products))
	for _, p := range req.Products {
		inputs = append(inputs, model.ItemInput{ProductID: p.ProductID, Quantity: p.Quantity})
		ids = append(ids, p.ProductID)
	}

	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		prices, err := ResolvePrices(ctx, tx, ids)
		if err != nil {
			return referenceAsConflict(err)
		}
		id, err = tx.InsertSale(ctx, req.StoreID, BuildLineItems(inputs, prices))
		return err
	})
	if err != nil {
		return 0, err
	}

	s.metrics.RecordLineItemsWritten(len(inputs))
	s.log.Event(ctx, "sale.created", map[string]any{
		"saleId":    id,
		"storeId":   req.StoreID,
		"lineItems": len(inputs),
	})
	return id, nil
}

// UpdateSale changes the store of a sale. Line items are untouched.
func (s *Service) UpdateSale(ctx context.Context, id int64, req UpdateSaleRequest) (SaleDTO, error) {
	if err := s.validate(req); err != nil {
		return SaleDTO{}, err
	}
	if req.StoreID == nil {
		return s.GetSale(ctx, id)
	}
	sale, err := s.store.UpdateSaleStore(ctx, id, *req.StoreID)
	s.metrics.RecordSaleOperation("update", err)
	if err != nil {
		return SaleDTO{}, err
	}
	return toSaleDTO(sale), nil
}

// DeleteSale removes a sale with its line items and returns what was
// deleted.
func (s *Service) DeleteSale(ctx context.Context, id int64) (SaleDTO, error) {
	var deleted model.Sale
	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		sale, err := tx.GetSale(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteSale(ctx, id); err != nil {
			return err
		}
		deleted = sale
		return nil
	})
	s.metrics.RecordSaleOperation("delete", err)
	if err != nil {
		return SaleDTO{}, err
	}
	s.log.Event(ctx, "sale.deleted", map[string]any{"saleId": id})
	return toSaleDTO(deleted), nil
}

// GetSaleProducts returns the sale with product names.
func (s *Service) GetSaleProducts(ctx context.Context, saleID int64) (SaleDetailDTO, error) {
	var out SaleDetailDTO
	err := s.store.RunInReadTx(ctx, func(tx store.Store) error {
		var err error
		out, err = saleDetail(ctx, tx, saleID)
		return err
	})
	return out, err
}

func saleDetail(ctx context.Context, st store.Store, saleID int64) (SaleDetailDTO, error) {
	sale, err := st.GetSale(ctx, saleID)
	if err != nil {
		return SaleDetailDTO{}, err
	}
	details, err := st.ListLineItemDetails(ctx, saleID)
	if err != nil {
		return SaleDetailDTO{}, err
	}
	return toSaleDetailDTO(sale, details), nil
}

// AddSaleProduct appends a line item priced at the product's current
// price. It does not merge with an existing line item of the same product;
// the store rejects such a duplicate with a conflict.
func (s *Service) AddSaleProduct(ctx context.Context, saleID int64, req AddSaleProductRequest) (out SaleDetailDTO, err error) {
	defer func() { s.metrics.RecordSaleOperation("add_item", err) }()

	if err := s.validate(req); err != nil {
		return SaleDetailDTO{}, err
	}

	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetSale(ctx, saleID); err != nil {
			return err
		}
		prices, err := ResolvePrices(ctx, tx, []int64{req.ProductID})
		if err != nil {
			return referenceAsConflict(err)
		}
		items := BuildLineItems([]model.ItemInput{{ProductID: req.ProductID, Quantity: req.Quantity}}, prices)
		for _, li := range items {
			li.SaleID = saleID
			if _, err := tx.InsertLineItem(ctx, li); err != nil {
				return err
			}
		}
		out, err = saleDetail(ctx, tx, saleID)
		return err
	})
	if err != nil {
		return SaleDetailDTO{}, err
	}

	s.metrics.RecordLineItemsWritten(1)
	s.log.Event(ctx, "sale.item_added", map[string]any{
		"saleId":    saleID,
		"productId": req.ProductID,
		"quantity":  req.Quantity,
	})
	return out, nil
}

// UpdateSaleProduct changes the quantity of a line item. The unit price
// keeps its snapshot value.
func (s *Service) UpdateSaleProduct(ctx context.Context, saleID, productID int64, req UpdateSaleProductRequest) (LineItemDTO, error) {
	if err := s.validate(req); err != nil {
		return LineItemDTO{}, err
	}
	if req.Quantity == nil {
		li, err := s.store.GetLineItem(ctx, saleID, productID)
		if err != nil {
			return LineItemDTO{}, err
		}
		return toLineItemDTO(li), nil
	}
	li, err := s.store.UpdateLineItemQuantity(ctx, saleID, productID, *req.Quantity)
	s.metrics.RecordSaleOperation("update_item", err)
	if err != nil {
		return LineItemDTO{}, err
	}
	return toLineItemDTO(li), nil
}

// DeleteSaleProduct removes one line item and returns it. The sale stays,
// even when it has no line items left.
func (s *Service) DeleteSaleProduct(ctx context.Context, saleID, productID int64) (LineItemDTO, error) {
	li, err := s.store.DeleteLineItem(ctx, saleID, productID)
	s.metrics.RecordSaleOperation("remove_item", err)
	if err != nil {
		return LineItemDTO{}, err
	}
	return toLineItemDTO(li), nil
}
