package store

import (
	"context"

	"sales-management/apperr"
	"sales-management/model"
)

func scanLineItem(row interface{ Scan(...any) error }) (model.LineItem, error) {
	var li model.LineItem
	err := row.Scan(&li.ID, &li.SaleID, &li.ProductID, &li.Quantity, &li.UnitPrice)
	return li, err
}

// lineItemsFor loads the line items of the given sales grouped by sale id,
// each group in insertion order.
func (s *PostgresStore) lineItemsFor(ctx context.Context, saleIDs []int64) (map[int64][]model.LineItem, error) {
	out := make(map[int64][]model.LineItem, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}
	in, args := inList(nil, saleIDs)
	rows, err := s.conn().QueryContext(ctx,
		`SELECT id, sale_id, product_id, quantity, unit_price FROM sale_products WHERE sale_id IN (`+in+`) ORDER BY id`,
		args...)
	if err != nil {
		return nil, mapError(err, "sale product")
	}
	defer rows.Close()
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		out[li.SaleID] = append(out[li.SaleID], li)
	}
	return out, rows.Err()
}

// GetSale reads the sale row and its line items from one snapshot.
func (s *PostgresStore) GetSale(ctx context.Context, id int64) (model.Sale, error) {
	var sale model.Sale
	err := s.inReadTx(ctx, func(tx *PostgresStore) error {
		if err := tx.conn().QueryRowContext(ctx,
			`SELECT id, store_id, created_at FROM sale WHERE id = $1`, id,
		).Scan(&sale.ID, &sale.StoreID, &sale.CreatedAt); err != nil {
			return mapError(err, "sale")
		}
		items, err := tx.lineItemsFor(ctx, []int64{id})
		if err != nil {
			return err
		}
		sale.LineItems = items[id]
		return nil
	})
	if err != nil {
		return model.Sale{}, err
	}
	return sale, nil
}

// InsertSale writes the sale row and its line items in one transaction.
// created_at is assigned by the database.
func (s *PostgresStore) InsertSale(ctx context.Context, storeID int64, items []model.LineItem) (int64, error) {
	var saleID int64
	err := s.inTx(ctx, func(tx *PostgresStore) error {
		if err := tx.conn().QueryRowContext(ctx,
			`INSERT INTO sale (store_id) VALUES ($1) RETURNING id`, storeID,
		).Scan(&saleID); err != nil {
			return mapError(err, "sale")
		}

		stmt, err := tx.conn().PrepareContext(ctx,
			`INSERT INTO sale_products (sale_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4)`)
		if err != nil {
			return mapError(err, "sale product")
		}
		defer stmt.Close()

		for _, it := range items {
			if _, err := stmt.ExecContext(ctx, saleID, it.ProductID, it.Quantity, it.UnitPrice); err != nil {
				return mapError(err, "sale product")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saleID, nil
}

func (s *PostgresStore) UpdateSaleStore(ctx context.Context, id, storeID int64) (model.Sale, error) {
	var sale model.Sale
	err := s.inTx(ctx, func(tx *PostgresStore) error {
		if err := tx.conn().QueryRowContext(ctx,
			`UPDATE sale SET store_id = $1 WHERE id = $2 RETURNING id, store_id, created_at`, storeID, id,
		).Scan(&sale.ID, &sale.StoreID, &sale.CreatedAt); err != nil {
			return mapError(err, "sale")
		}
		items, err := tx.lineItemsFor(ctx, []int64{id})
		if err != nil {
			return err
		}
		sale.LineItems = items[id]
		return nil
	})
	return sale, err
}

// DeleteSale removes the sale; line items go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteSale(ctx context.Context, id int64) error {
	res, err := s.conn().ExecContext(ctx, `DELETE FROM sale WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "sale")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "sale")
	}
	if n == 0 {
		return apperr.NotFoundWithID("sale", id)
	}
	return nil
}

func (s *PostgresStore) ListLineItemDetails(ctx context.Context, saleID int64) ([]model.LineItemDetail, error) {
	rows, err := s.conn().QueryContext(ctx, `
		SELECT sp.id, sp.sale_id, sp.product_id, sp.quantity, sp.unit_price, p.name
		FROM sale_products sp
		JOIN product p ON p.id = sp.product_id
		WHERE sp.sale_id = $1
		ORDER BY sp.id`, saleID)
	if err != nil {
		return nil, mapError(err, "sale product")
	}
	defer rows.Close()
	out := []model.LineItemDetail{}
	for rows.Next() {
		var d model.LineItemDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.ProductName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// InsertLineItem appends a line item. It does not look for an existing
// line item of the same product; the (sale_id, product_id) unique index
// is the only guard.
func (s *PostgresStore) InsertLineItem(ctx context.Context, item model.LineItem) (model.LineItem, error) {
	err := s.conn().QueryRowContext(ctx,
		`INSERT INTO sale_products (sale_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice,
	).Scan(&item.ID)
	if err != nil {
		return model.LineItem{}, mapError(err, "sale product")
	}
	return item, nil
}

// The (sale_id, product_id) lookups below pick the lowest id should more
// than one row ever match.

func (s *PostgresStore) GetLineItem(ctx context.Context, saleID, productID int64) (model.LineItem, error) {
	li, err := scanLineItem(s.conn().QueryRowContext(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_products
		WHERE sale_id = $1 AND product_id = $2
		ORDER BY id LIMIT 1`, saleID, productID))
	return li, mapError(err, "sale product")
}

// UpdateLineItemQuantity changes quantity only; unit_price is kept.
func (s *PostgresStore) UpdateLineItemQuantity(ctx context.Context, saleID, productID, quantity int64) (model.LineItem, error) {
	li, err := scanLineItem(s.conn().QueryRowContext(ctx, `
		UPDATE sale_products SET quantity = $1
		WHERE id = (
			SELECT id FROM sale_products
			WHERE sale_id = $2 AND product_id = $3
			ORDER BY id LIMIT 1
		)
		RETURNING id, sale_id, product_id, quantity, unit_price`, quantity, saleID, productID))
	return li, mapError(err, "sale product")
}

func (s *PostgresStore) DeleteLineItem(ctx context.Context, saleID, productID int64) (model.LineItem, error) {
	li, err := scanLineItem(s.conn().QueryRowContext(ctx, `
		DELETE FROM sale_products
		WHERE id = (
			SELECT id FROM sale_products
			WHERE sale_id = $1 AND product_id = $2
			ORDER BY id LIMIT 1
		)
		RETURNING id, sale_id, product_id, quantity, unit_price`, saleID, productID))
	return li, mapError(err, "sale product")
}
