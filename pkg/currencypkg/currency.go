// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import (
	"github.com/go-playground/validator/v10"
)

// Constants for all supported currencies.
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
)

// SupportedCurrencies holds all the supported currencies.
var SupportedCurrencies = []string{
	USD,
	EUR,
	GBP,
}

// minorUnits holds the number of decimal places of each currency's minor unit.
var minorUnits = map[string]int32{
	USD: 2,
	EUR: 2,
	GBP: 2,
}

// IsSupportedCurrency returns true if the currency is supported.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}

	return false
}

// MinorUnits returns the maximum number of decimal places allowed for
// amounts in the given currency. Unknown currencies default to 2.
func MinorUnits(currency string) int32 {
	if units, ok := minorUnits[currency]; ok {
		return units
	}

	return 2
}

// ValidCurrency is a gin binding validator for currency fields.
var ValidCurrency validator.Func = func(fl validator.FieldLevel) bool {
	if currency, ok := fl.Field().Interface().(string); ok {
		return IsSupportedCurrency(currency)
	}

	return false
}
