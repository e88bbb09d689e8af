package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"sales-management/apperr"
)

// FilterKind enumerates the supported sale filters.
type FilterKind int

const (
	FilterCityID FilterKind = iota + 1
	FilterStoreID
	FilterProductID
	FilterDays
	FilterMinAmount
	FilterMaxAmount
	FilterMinQuantity
	FilterMaxQuantity
)

// filterOrder fixes the order in which filters are applied.
var filterOrder = []FilterKind{
	FilterCityID,
	FilterStoreID,
	FilterProductID,
	FilterDays,
	FilterMinAmount,
	FilterMaxAmount,
	FilterMinQuantity,
	FilterMaxQuantity,
}

var filterKeys = map[FilterKind]string{
	FilterCityID:      "city_id",
	FilterStoreID:     "store_id",
	FilterProductID:   "product_id",
	FilterDays:        "days",
	FilterMinAmount:   "min_amount",
	FilterMaxAmount:   "max_amount",
	FilterMinQuantity: "min_quantity",
	FilterMaxQuantity: "max_quantity",
}

func (k FilterKind) String() string {
	if key, ok := filterKeys[k]; ok {
		return key
	}
	return "FilterKind(" + strconv.Itoa(int(k)) + ")"
}

// IsAmount reports whether the filter value is a decimal amount.
func (k FilterKind) IsAmount() bool {
	return k == FilterMinAmount || k == FilterMaxAmount
}

// FilterKindFromKey resolves a query parameter name.
func FilterKindFromKey(key string) (FilterKind, bool) {
	for kind, k := range filterKeys {
		if k == key {
			return kind, true
		}
	}
	return 0, false
}

// FilterKinds returns every supported kind in application order.
func FilterKinds() []FilterKind {
	out := make([]FilterKind, len(filterOrder))
	copy(out, filterOrder)
	return out
}

// SaleFilters holds the present filters. Amount kinds carry a
// decimal.Decimal, every other kind an int64.
type SaleFilters map[FilterKind]any

// Kinds returns the present kinds in application order.
func (f SaleFilters) Kinds() []FilterKind {
	out := make([]FilterKind, 0, len(f))
	for _, k := range filterOrder {
		if _, ok := f[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Has reports whether any of kinds is present.
func (f SaleFilters) Has(kinds ...FilterKind) bool {
	for _, k := range kinds {
		if _, ok := f[k]; ok {
			return true
		}
	}
	return false
}

func (f SaleFilters) Int(k FilterKind) int64 {
	v, _ := f[k].(int64)
	return v
}

func (f SaleFilters) Amount(k FilterKind) decimal.Decimal {
	v, _ := f[k].(decimal.Decimal)
	return v
}

// ParseSaleFilters parses query parameters. Empty values are ignored;
// unknown names and unparsable values are rejected. Ranges are not checked
// for consistency, so min > max simply matches nothing.
func ParseSaleFilters(params map[string][]string) (SaleFilters, error) {
	filters := SaleFilters{}
	for key, values := range params {
		kind, ok := FilterKindFromKey(key)
		if !ok {
			return nil, apperr.InvalidInput("unsupported parameter").WithDetail("parameter", key)
		}
		if len(values) == 0 || values[0] == "" {
			continue
		}
		raw := values[0]
		if kind.IsAmount() {
			d, err := decimal.NewFromString(raw)
			if err != nil || !checkAmount(d) {
				return nil, apperr.InvalidInput("invalid amount").WithDetail(key, raw)
			}
			filters[kind] = d
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.InvalidInput("invalid integer").WithDetail(key, raw)
		}
		filters[kind] = n
	}
	return filters, nil
}

// Amount filters are compared with sale totals, which are NUMERIC(10,2)
// prices times bigint quantities. Values outside these bounds are refused
// before they reach the database.
const (
	maxAmountIntegerDigits = 28
	maxAmountScale         = 8
)

func checkAmount(d decimal.Decimal) bool {
	return FitsDigits(d, maxAmountIntegerDigits, maxAmountScale)
}

// MaxFilterDays caps the days filter. Larger windows already reach back
// before any stored sale and still fit a Postgres timestamptz.
const MaxFilterDays = 700000

// Since is the lower bound on created_at for the days filter. Calendar
// arithmetic keeps large windows from overflowing time.Duration.
func Since(now time.Time, days int64) time.Time {
	if days > MaxFilterDays {
		days = MaxFilterDays
	}
	if days < -MaxFilterDays {
		days = -MaxFilterDays
	}
	return now.UTC().AddDate(0, 0, -int(days))
}

// Match evaluates the filters against a loaded sale. cityID is the city of
// the sale's store. It is the in-memory counterpart of the SQL query.
func (f SaleFilters) Match(s Sale, cityID int64, now time.Time) bool {
	for _, k := range f.Kinds() {
		var ok bool
		switch k {
		case FilterCityID:
			ok = cityID == f.Int(k)
		case FilterStoreID:
			ok = s.StoreID == f.Int(k)
		case FilterProductID:
			ok = s.HasProduct(f.Int(k))
		case FilterDays:
			ok = !s.CreatedAt.Before(Since(now, f.Int(k)))
		case FilterMinAmount:
			ok = s.TotalAmount().GreaterThanOrEqual(f.Amount(k))
		case FilterMaxAmount:
			ok = s.TotalAmount().LessThanOrEqual(f.Amount(k))
		case FilterMinQuantity:
			ok = s.TotalQuantity() >= f.Int(k)
		case FilterMaxQuantity:
			ok = s.TotalQuantity() <= f.Int(k)
		}
		if !ok {
			return false
		}
	}
	return true
}
