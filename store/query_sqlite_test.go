package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"sales-management/model"
)

// The query engine is run against an embedded SQLite database and its
// results compared with the in-memory filter evaluation.

const sqliteSchema = `
CREATE TABLE city (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE);
CREATE TABLE store (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	city_id INTEGER NOT NULL REFERENCES city (id) ON DELETE CASCADE
);
CREATE TABLE product (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE, price NUMERIC NOT NULL);
CREATE TABLE sale (
	id INTEGER PRIMARY KEY,
	store_id INTEGER NOT NULL REFERENCES store (id) ON DELETE CASCADE,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE sale_products (
	id INTEGER PRIMARY KEY,
	sale_id INTEGER NOT NULL REFERENCES sale (id) ON DELETE CASCADE,
	product_id INTEGER NOT NULL REFERENCES product (id) ON DELETE CASCADE,
	quantity INTEGER NOT NULL,
	unit_price NUMERIC NOT NULL,
	UNIQUE (sale_id, product_id)
)`

type fixture struct {
	db        *sql.DB
	store     *PostgresStore
	sales     []model.Sale
	storeCity map[int64]int64
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection gets its own :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedSales(t *testing.T) *fixture {
	t.Helper()
	db := openSQLite(t)
	ctx := context.Background()
	st := &PostgresStore{DB: db, Clock: func() time.Time { return queryNow }}

	mustExec := func(query string, args ...any) {
		_, err := db.ExecContext(ctx, query, args...)
		require.NoError(t, err)
	}

	mustExec(`INSERT INTO city (id, name) VALUES (1, 'Vladivostok'), (2, 'Khabarovsk')`)
	mustExec(`INSERT INTO store (id, name, city_id) VALUES (1, 'Central', 1), (2, 'Harbour', 1), (3, 'East', 2)`)
	mustExec(`INSERT INTO product (id, name, price) VALUES ($1, 'Tea', $2), ($3, 'Cake', $4), ($5, 'Milk', $6), ($7, 'Cheese', $8)`,
		1, price("5.00"), 2, price("7.50"), 3, price("2.00"), 4, price("12.25"))

	hoursAgo := func(h int) time.Time { return queryNow.Add(-time.Duration(h) * time.Hour) }
	sales := []model.Sale{
		{ID: 1, StoreID: 1, CreatedAt: hoursAgo(1), LineItems: []model.LineItem{
			{ProductID: 1, Quantity: 2, UnitPrice: price("5.00")},
			{ProductID: 2, Quantity: 1, UnitPrice: price("7.50")},
		}},
		{ID: 2, StoreID: 2, CreatedAt: hoursAgo(30), LineItems: []model.LineItem{
			{ProductID: 3, Quantity: 5, UnitPrice: price("2.00")},
		}},
		{ID: 3, StoreID: 3, CreatedAt: hoursAgo(24 * 5), LineItems: []model.LineItem{
			{ProductID: 4, Quantity: 2, UnitPrice: price("12.25")},
			{ProductID: 1, Quantity: 1, UnitPrice: price("4.50")},
		}},
		{ID: 4, StoreID: 1, CreatedAt: hoursAgo(24 * 40)},
		{ID: 5, StoreID: 3, CreatedAt: hoursAgo(47), LineItems: []model.LineItem{
			{ProductID: 2, Quantity: 3, UnitPrice: price("7.50")},
			{ProductID: 3, Quantity: 1, UnitPrice: price("2.00")},
			{ProductID: 1, Quantity: 1, UnitPrice: price("5.00")},
		}},
	}
	var lineID int64
	for i, s := range sales {
		mustExec(`INSERT INTO sale (id, store_id, created_at) VALUES ($1, $2, $3)`, s.ID, s.StoreID, s.CreatedAt)
		for j := range s.LineItems {
			lineID++
			li := &sales[i].LineItems[j]
			li.ID, li.SaleID = lineID, s.ID
			mustExec(`INSERT INTO sale_products (id, sale_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
				li.ID, li.SaleID, li.ProductID, li.Quantity, li.UnitPrice)
		}
	}

	return &fixture{
		db:        db,
		store:     st,
		sales:     sales,
		storeCity: map[int64]int64{1: 1, 2: 1, 3: 2},
	}
}

func (f *fixture) expectedIDs(filters model.SaleFilters) []int64 {
	ids := []int64{}
	for _, s := range f.sales {
		if filters.Match(s, f.storeCity[s.StoreID], queryNow) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func saleIDs(sales []model.Sale) []int64 {
	ids := make([]int64, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestQuerySales_MatchesInMemoryFilters(t *testing.T) {
	f := seedSales(t)

	tests := []struct {
		name    string
		filters model.SaleFilters
		want    []int64
	}{
		{"no filters", model.SaleFilters{}, []int64{1, 2, 3, 4, 5}},
		{"city", model.SaleFilters{model.FilterCityID: int64(1)}, []int64{1, 2, 4}},
		{"store", model.SaleFilters{model.FilterStoreID: int64(3)}, []int64{3, 5}},
		{"product", model.SaleFilters{model.FilterProductID: int64(1)}, []int64{1, 3, 5}},
		{"city and product", model.SaleFilters{model.FilterCityID: int64(2), model.FilterProductID: int64(1)}, []int64{3, 5}},
		{"days", model.SaleFilters{model.FilterDays: int64(2)}, []int64{1, 2, 5}},
		{"days beyond duration range", model.SaleFilters{model.FilterDays: int64(400000)}, []int64{1, 2, 3, 4, 5}},
		{"min amount", model.SaleFilters{model.FilterMinAmount: price("17.5")}, []int64{1, 3, 5}},
		{"max amount", model.SaleFilters{model.FilterMaxAmount: price("10")}, []int64{2, 4}},
		{"amount range", model.SaleFilters{model.FilterMinAmount: price("10"), model.FilterMaxAmount: price("17.50")}, []int64{1, 2}},
		{"min quantity", model.SaleFilters{model.FilterMinQuantity: int64(5)}, []int64{2, 5}},
		{"max quantity", model.SaleFilters{model.FilterMaxQuantity: int64(0)}, []int64{4}},
		{"inverted range", model.SaleFilters{model.FilterMinQuantity: int64(5), model.FilterMaxQuantity: int64(1)}, []int64{}},
		{"product fan-out is distinct", model.SaleFilters{model.FilterProductID: int64(2), model.FilterMinQuantity: int64(1)}, []int64{1, 5}},
		{"everything", model.SaleFilters{
			model.FilterCityID:      int64(2),
			model.FilterStoreID:     int64(3),
			model.FilterProductID:   int64(2),
			model.FilterDays:        int64(3),
			model.FilterMinAmount:   price("20"),
			model.FilterMaxAmount:   price("30"),
			model.FilterMinQuantity: int64(5),
			model.FilterMaxQuantity: int64(5),
		}, []int64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.store.QuerySales(context.Background(), tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, saleIDs(got))
			assert.Equal(t, f.expectedIDs(tt.filters), saleIDs(got))
		})
	}
}

func TestQuerySales_LoadsSnapshotLineItems(t *testing.T) {
	f := seedSales(t)

	got, err := f.store.QuerySales(context.Background(), model.SaleFilters{model.FilterStoreID: int64(3)})
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := f.sales[2]
	assert.Equal(t, want.StoreID, got[0].StoreID)
	assert.True(t, want.CreatedAt.Equal(got[0].CreatedAt))
	require.Len(t, got[0].LineItems, 2)
	assert.Equal(t, int64(4), got[0].LineItems[0].ProductID)
	assert.True(t, got[0].LineItems[1].UnitPrice.Equal(price("4.50")))
	assert.True(t, got[0].TotalAmount().Equal(price("29")))
}

func TestSaleTotalsSQL_AgreeWithModel(t *testing.T) {
	f := seedSales(t)

	rows, err := f.db.Query(`SELECT s.id, ` + saleTotalAmountSQL + `, ` + saleTotalQuantitySQL + ` FROM sale s ORDER BY s.id`)
	require.NoError(t, err)
	defer rows.Close()

	i := 0
	for rows.Next() {
		var (
			id     int64
			amount decimal.Decimal
			qty    int64
		)
		require.NoError(t, rows.Scan(&id, &amount, &qty))
		want := f.sales[i]
		assert.Equal(t, want.ID, id)
		assert.True(t, want.TotalAmount().Equal(amount), "sale %d: %s != %s", id, want.TotalAmount(), amount)
		assert.Equal(t, want.TotalQuantity(), qty)
		i++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, len(f.sales), i)
}
