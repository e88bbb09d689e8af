package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sales-management/apperr"
	"sales-management/model"
	"sales-management/store"
)

// ResolvePrices looks up the current price of every requested product.
// Unless every distinct id resolves it fails with ReferenceNotFound and
// returns no prices.
func ResolvePrices(ctx context.Context, catalog store.Catalog, ids []int64) (map[int64]decimal.Decimal, error) {
	distinct := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}

	products, err := catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(distinct) {
		return nil, apperr.ReferenceNotFound("not all products found").
			WithDetail("missing", missingIDs(ids, products))
	}

	prices := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	return prices, nil
}

func missingIDs(ids []int64, found []model.Product) string {
	have := make(map[int64]bool, len(found))
	for _, p := range found {
		have[p.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if have[id] {
			continue
		}
		have[id] = true
		missing = append(missing, strconv.FormatInt(id, 10))
	}
	return strings.Join(missing, ",")
}

// BuildLineItems pairs each requested item with its resolved price,
// keeping input order. Every product id must be present in prices.
func BuildLineItems(items []model.ItemInput, prices map[int64]decimal.Decimal) []model.LineItem {
	out := make([]model.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: prices[it.ProductID],
		})
	}
	return out
}

// referenceAsConflict reports a reference failure on a write as a
// conflict with the current catalog.
func referenceAsConflict(err error) error {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeReferenceNotFound {
		return err
	}
	return apperr.Conflict(appErr.Message).WithDetails(appErr.Details).Wrap(err)
}
