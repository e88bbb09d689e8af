package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"sales-management/apperr"
	"sales-management/model"
)

// Derived totals of the sale aliased s, as correlated subqueries. They
// must agree with model.TotalAmount and model.TotalQuantity.
const (
	saleTotalAmountSQL   = `(SELECT COALESCE(SUM(li.unit_price * li.quantity), 0) FROM sale_products li WHERE li.sale_id = s.id)`
	saleTotalQuantitySQL = `(SELECT COALESCE(SUM(li.quantity), 0) FROM sale_products li WHERE li.sale_id = s.id)`
)

// saleJoin is added once when any of its kinds is filtered on.
type saleJoin struct {
	kinds  []model.FilterKind
	clause string
}

var saleJoins = []saleJoin{
	{kinds: []model.FilterKind{model.FilterCityID}, clause: "JOIN store st ON st.id = s.store_id"},
	{kinds: []model.FilterKind{model.FilterProductID}, clause: "JOIN sale_products sp ON sp.sale_id = s.id"},
}

// saleQuery numbers placeholders while predicates are rendered.
type saleQuery struct {
	now  time.Time
	args []any
}

func (q *saleQuery) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// amountArg casts the bound value so the comparison is numeric on every
// engine regardless of how the driver sends decimals.
func (q *saleQuery) amountArg(v any) string {
	return "CAST(" + q.arg(v) + " AS NUMERIC)"
}

type predicateFunc func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string

var salePredicates = map[model.FilterKind]predicateFunc{
	model.FilterCityID: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return "st.city_id = " + q.arg(f.Int(k))
	},
	model.FilterStoreID: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return "s.store_id = " + q.arg(f.Int(k))
	},
	model.FilterProductID: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return "sp.product_id = " + q.arg(f.Int(k))
	},
	model.FilterDays: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return "s.created_at >= " + q.arg(model.Since(q.now, f.Int(k)))
	},
	model.FilterMinAmount: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return saleTotalAmountSQL + " >= " + q.amountArg(f.Amount(k))
	},
	model.FilterMaxAmount: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return saleTotalAmountSQL + " <= " + q.amountArg(f.Amount(k))
	},
	model.FilterMinQuantity: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return saleTotalQuantitySQL + " >= " + q.arg(f.Int(k))
	},
	model.FilterMaxQuantity: func(q *saleQuery, f model.SaleFilters, k model.FilterKind) string {
		return saleTotalQuantitySQL + " <= " + q.arg(f.Int(k))
	},
}

// buildSaleQuery renders the filtered sale select. Joins are chosen from
// the filter kinds present and each is emitted at most once; DISTINCT
// removes the fan-out of the line-item join.
func buildSaleQuery(filters model.SaleFilters, now time.Time) (string, []any, error) {
	for k := range filters {
		if _, ok := salePredicates[k]; !ok {
			return "", nil, apperr.InvalidInput("unsupported parameter").WithDetail("parameter", k.String())
		}
	}

	q := &saleQuery{now: now}
	var b strings.Builder
	b.WriteString("SELECT DISTINCT s.id, s.store_id, s.created_at FROM sale s")
	for _, j := range saleJoins {
		if filters.Has(j.kinds...) {
			b.WriteString(" ")
			b.WriteString(j.clause)
		}
	}

	kinds := filters.Kinds()
	if len(kinds) > 0 {
		conds := make([]string, 0, len(kinds))
		for _, k := range kinds {
			conds = append(conds, salePredicates[k](q, filters, k))
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY s.id")
	return b.String(), q.args, nil
}

// QuerySales returns the sales matching every filter, ascending by id,
// with their line items loaded. Both reads share one snapshot.
func (s *PostgresStore) QuerySales(ctx context.Context, filters model.SaleFilters) ([]model.Sale, error) {
	query, args, err := buildSaleQuery(filters, s.now())
	if err != nil {
		return nil, err
	}

	var sales []model.Sale
	err = s.inReadTx(ctx, func(tx *PostgresStore) error {
		var err error
		sales, err = tx.matchingSales(ctx, query, args)
		if err != nil {
			return err
		}
		ids := make([]int64, len(sales))
		for i := range sales {
			ids[i] = sales[i].ID
		}
		items, err := tx.lineItemsFor(ctx, ids)
		if err != nil {
			return err
		}
		for i := range sales {
			sales[i].LineItems = items[sales[i].ID]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *PostgresStore) matchingSales(ctx context.Context, query string, args []any) ([]model.Sale, error) {
	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "sale")
	}
	defer rows.Close()

	sales := []model.Sale{}
	for rows.Next() {
		var sale model.Sale
		if err := rows.Scan(&sale.ID, &sale.StoreID, &sale.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
