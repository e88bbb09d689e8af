package store

import (
	"context"

	"github.com/shopspring/decimal"

	"sales-management/model"
)

// --- cities ---

func (s *PostgresStore) ListCities(ctx context.Context) ([]model.City, error) {
	rows, err := s.conn().QueryContext(ctx, `SELECT id, name FROM city ORDER BY id`)
	if err != nil {
		return nil, mapError(err, "city")
	}
	defer rows.Close()
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCity(ctx context.Context, id int64) (model.City, error) {
	var c model.City
	err := s.conn().QueryRowContext(ctx, `SELECT id, name FROM city WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	return c, mapError(err, "city")
}

func (s *PostgresStore) CreateCity(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.conn().QueryRowContext(ctx, `INSERT INTO city (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, mapError(err, "city")
}

func (s *PostgresStore) UpdateCity(ctx context.Context, id int64, name *string) (model.City, error) {
	if name == nil {
		return s.GetCity(ctx, id)
	}
	var c model.City
	err := s.conn().QueryRowContext(ctx,
		`UPDATE city SET name = $1 WHERE id = $2 RETURNING id, name`, *name, id,
	).Scan(&c.ID, &c.Name)
	return c, mapError(err, "city")
}

// DeleteCity cascades to the city's stores and their sales.
func (s *PostgresStore) DeleteCity(ctx context.Context, id int64) (model.City, error) {
	var c model.City
	err := s.conn().QueryRowContext(ctx, `DELETE FROM city WHERE id = $1 RETURNING id, name`, id).Scan(&c.ID, &c.Name)
	return c, mapError(err, "city")
}

// --- stores ---

func scanStore(row interface{ Scan(...any) error }) (model.Store, error) {
	var st model.Store
	err := row.Scan(&st.ID, &st.Name, &st.CityID)
	return st, err
}

func (s *PostgresStore) ListStores(ctx context.Context) ([]model.Store, error) {
	rows, err := s.conn().QueryContext(ctx, `SELECT id, name, city_id FROM store ORDER BY id`)
	if err != nil {
		return nil, mapError(err, "store")
	}
	defer rows.Close()
	out := []model.Store{}
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetStore(ctx context.Context, id int64) (model.Store, error) {
	st, err := scanStore(s.conn().QueryRowContext(ctx, `SELECT id, name, city_id FROM store WHERE id = $1`, id))
	return st, mapError(err, "store")
}

func (s *PostgresStore) CreateStore(ctx context.Context, name string, cityID int64) (int64, error) {
	var id int64
	err := s.conn().QueryRowContext(ctx,
		`INSERT INTO store (name, city_id) VALUES ($1, $2) RETURNING id`, name, cityID,
	).Scan(&id)
	return id, mapError(err, "store")
}

func (s *PostgresStore) UpdateStore(ctx context.Context, id int64, patch StorePatch) (model.Store, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.CityID != nil {
		set.add("city_id", *patch.CityID)
	}
	if set.empty() {
		return s.GetStore(ctx, id)
	}
	query, args := set.update("store", id, "id, name, city_id")
	st, err := scanStore(s.conn().QueryRowContext(ctx, query, args...))
	return st, mapError(err, "store")
}

func (s *PostgresStore) DeleteStore(ctx context.Context, id int64) (model.Store, error) {
	st, err := scanStore(s.conn().QueryRowContext(ctx, `DELETE FROM store WHERE id = $1 RETURNING id, name, city_id`, id))
	return st, mapError(err, "store")
}

// --- products ---

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price)
	return p, err
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "product")
	}
	defer rows.Close()
	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.queryProducts(ctx, `SELECT id, name, price FROM product ORDER BY id`)
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	p, err := scanProduct(s.conn().QueryRowContext(ctx, `SELECT id, name, price FROM product WHERE id = $1`, id))
	return p, mapError(err, "product")
}

func (s *PostgresStore) GetProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	in, args := inList(nil, ids)
	return s.queryProducts(ctx, `SELECT id, name, price FROM product WHERE id IN (`+in+`) ORDER BY id`, args...)
}

func (s *PostgresStore) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	var id int64
	err := s.conn().QueryRowContext(ctx,
		`INSERT INTO product (name, price) VALUES ($1, $2) RETURNING id`, name, price,
	).Scan(&id)
	return id, mapError(err, "product")
}

// UpdateProduct never touches line items: their prices are snapshots.
func (s *PostgresStore) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (model.Product, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Price != nil {
		set.add("price", *patch.Price)
	}
	if set.empty() {
		return s.GetProduct(ctx, id)
	}
	query, args := set.update("product", id, "id, name, price")
	p, err := scanProduct(s.conn().QueryRowContext(ctx, query, args...))
	return p, mapError(err, "product")
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) (model.Product, error) {
	p, err := scanProduct(s.conn().QueryRowContext(ctx, `DELETE FROM product WHERE id = $1 RETURNING id, name, price`, id))
	return p, mapError(err, "product")
}
