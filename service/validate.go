package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"sales-management/apperr"
	"sales-management/model"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError turns validator failures into an InvalidInput error
// keyed by the JSON path of each offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.InvalidInput(err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[fieldPath(e)] = formatValidationError(e)
	}
	return apperr.InvalidInputWithFields("validation failed", fields)
}

// fieldPath drops the request type name from the namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	if ns == "" {
		return "value"
	}
	return ns
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must contain at least " + e.Param() + " item(s)"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "gt":
		return "must be greater than " + e.Param()
	case "unique":
		return "must not repeat " + e.Param()
	default:
		return "is invalid"
	}
}

func (s *Service) validate(req any) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

// checkName applies the configured maximum name length.
func (s *Service) checkName(field, name string) error {
	if err := s.validator.Var(name, "required,max="+strconv.Itoa(s.nameMaxLen)); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.InvalidInputWithFields("validation failed", map[string]string{
				field: formatValidationError(verrs[0]),
			})
		}
		return apperr.InvalidInput(err.Error())
	}
	return nil
}

// checkPrice tests the scale before the magnitude; both look at the
// exponent first, so neither expands a huge coefficient.
func checkPrice(price decimal.Decimal) error {
	if price.Exponent() < -model.PriceScale {
		return apperr.InvalidInputWithFields("validation failed", map[string]string{
			"price": "must have at most " + strconv.Itoa(model.PriceScale) + " decimal places",
		})
	}
	if !model.FitsDigits(price, model.PriceIntegerDigits, model.PriceScale) {
		return apperr.InvalidInputWithFields("validation failed", map[string]string{
			"price": "must be less than 1e" + strconv.Itoa(model.PriceIntegerDigits),
		})
	}
	if !price.IsPositive() {
		return apperr.InvalidInputWithFields("validation failed", map[string]string{"price": "must be greater than 0"})
	}
	return nil
}
