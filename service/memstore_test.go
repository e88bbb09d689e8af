package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"sales-management/apperr"
	"sales-management/model"
	"sales-management/store"
)

// memStore is an in-memory store.Store with the relational guarantees the
// service relies on: foreign keys, the (sale, product) unique index,
// cascading sale deletes and transactional rollback. Catalog methods the
// tests never reach are left to the embedded nil interface.
type memStore struct {
	store.Store

	now      time.Time
	nextID   int64
	cities   map[int64]model.City
	stores   map[int64]model.Store
	products map[int64]model.Product
	sales    map[int64]model.Sale
	items    []model.LineItem

	readTxs int
}

func newMemStore() *memStore {
	return &memStore{
		now:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		cities:   map[int64]model.City{},
		stores:   map[int64]model.Store{},
		products: map[int64]model.Product{},
		sales:    map[int64]model.Sale{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memSnapshot struct {
	nextID   int64
	cities   map[int64]model.City
	stores   map[int64]model.Store
	products map[int64]model.Product
	sales    map[int64]model.Sale
	items    []model.LineItem
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) RunInTx(ctx context.Context, fn func(store.Store) error) error {
	snap := memSnapshot{
		nextID:   m.nextID,
		cities:   copyMap(m.cities),
		stores:   copyMap(m.stores),
		products: copyMap(m.products),
		sales:    copyMap(m.sales),
		items:    append([]model.LineItem(nil), m.items...),
	}
	if err := fn(m); err != nil {
		m.nextID, m.cities, m.stores, m.products, m.sales, m.items =
			snap.nextID, snap.cities, snap.stores, snap.products, snap.sales, snap.items
		return err
	}
	return nil
}

func (m *memStore) RunInReadTx(ctx context.Context, fn func(store.Store) error) error {
	m.readTxs++
	return fn(m)
}

// --- catalog ---

func (m *memStore) CreateCity(ctx context.Context, name string) (int64, error) {
	id := m.id()
	m.cities[id] = model.City{ID: id, Name: name}
	return id, nil
}

func (m *memStore) CreateStore(ctx context.Context, name string, cityID int64) (int64, error) {
	if _, ok := m.cities[cityID]; !ok {
		return 0, apperr.Conflict("invalid foreign key")
	}
	id := m.id()
	m.stores[id] = model.Store{ID: id, Name: name, CityID: cityID}
	return id, nil
}

func (m *memStore) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	id := m.id()
	m.products[id] = model.Product{ID: id, Name: name, Price: price}
	return id, nil
}

func (m *memStore) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return model.Product{}, apperr.NotFound("product")
	}
	return p, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, id int64, patch store.ProductPatch) (model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return model.Product{}, apperr.NotFound("product")
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	m.products[id] = p
	return p, nil
}

func (m *memStore) GetProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	out := []model.Product{}
	seen := map[int64]bool{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- sales ---

func (m *memStore) loaded(s model.Sale) model.Sale {
	s.LineItems = nil
	for _, li := range m.items {
		if li.SaleID == s.ID {
			s.LineItems = append(s.LineItems, li)
		}
	}
	return s
}

func (m *memStore) QuerySales(ctx context.Context, filters model.SaleFilters) ([]model.Sale, error) {
	out := []model.Sale{}
	for _, s := range m.sales {
		s = m.loaded(s)
		if filters.Match(s, m.stores[s.StoreID].CityID, m.now) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetSale(ctx context.Context, id int64) (model.Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return model.Sale{}, apperr.NotFound("sale")
	}
	return m.loaded(s), nil
}

func (m *memStore) InsertSale(ctx context.Context, storeID int64, items []model.LineItem) (int64, error) {
	if _, ok := m.stores[storeID]; !ok {
		return 0, apperr.Conflict("invalid foreign key")
	}
	id := m.id()
	m.sales[id] = model.Sale{ID: id, StoreID: storeID, CreatedAt: m.now}
	for _, li := range items {
		li.SaleID = id
		if _, err := m.InsertLineItem(ctx, li); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (m *memStore) UpdateSaleStore(ctx context.Context, id, storeID int64) (model.Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return model.Sale{}, apperr.NotFound("sale")
	}
	if _, ok := m.stores[storeID]; !ok {
		return model.Sale{}, apperr.Conflict("invalid foreign key")
	}
	s.StoreID = storeID
	m.sales[id] = s
	return m.loaded(s), nil
}

func (m *memStore) DeleteSale(ctx context.Context, id int64) error {
	if _, ok := m.sales[id]; !ok {
		return apperr.NotFoundWithID("sale", id)
	}
	delete(m.sales, id)
	kept := m.items[:0]
	for _, li := range m.items {
		if li.SaleID != id {
			kept = append(kept, li)
		}
	}
	m.items = kept
	return nil
}

func (m *memStore) ListLineItemDetails(ctx context.Context, saleID int64) ([]model.LineItemDetail, error) {
	out := []model.LineItemDetail{}
	for _, li := range m.items {
		if li.SaleID == saleID {
			out = append(out, model.LineItemDetail{LineItem: li, ProductName: m.products[li.ProductID].Name})
		}
	}
	return out, nil
}

func (m *memStore) InsertLineItem(ctx context.Context, item model.LineItem) (model.LineItem, error) {
	if _, ok := m.sales[item.SaleID]; !ok {
		return model.LineItem{}, apperr.Conflict("invalid foreign key")
	}
	if _, ok := m.products[item.ProductID]; !ok {
		return model.LineItem{}, apperr.Conflict("invalid foreign key")
	}
	for _, li := range m.items {
		if li.SaleID == item.SaleID && li.ProductID == item.ProductID {
			return model.LineItem{}, apperr.Conflict("unique field duplicated")
		}
	}
	item.ID = m.id()
	m.items = append(m.items, item)
	return item, nil
}

func (m *memStore) find(saleID, productID int64) int {
	for i, li := range m.items {
		if li.SaleID == saleID && li.ProductID == productID {
			return i
		}
	}
	return -1
}

func (m *memStore) GetLineItem(ctx context.Context, saleID, productID int64) (model.LineItem, error) {
	i := m.find(saleID, productID)
	if i < 0 {
		return model.LineItem{}, apperr.NotFound("sale product")
	}
	return m.items[i], nil
}

func (m *memStore) UpdateLineItemQuantity(ctx context.Context, saleID, productID, quantity int64) (model.LineItem, error) {
	i := m.find(saleID, productID)
	if i < 0 {
		return model.LineItem{}, apperr.NotFound("sale product")
	}
	m.items[i].Quantity = quantity
	return m.items[i], nil
}

func (m *memStore) DeleteLineItem(ctx context.Context, saleID, productID int64) (model.LineItem, error) {
	i := m.find(saleID, productID)
	if i < 0 {
		return model.LineItem{}, apperr.NotFound("sale product")
	}
	li := m.items[i]
	m.items = append(m.items[:i], m.items[i+1:]...)
	return li, nil
}
