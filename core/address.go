package core

import (
	"fmt"
	"strings"

	"github.com/biter777/countries"
)

/**
 * DOMAIN
 */

// Address is a shipping address shaped the way the carrier expects it.
// The same struct is used for the unverified row-derived candidate and for
// whatever the resolution endpoint hands back; resolution never returns an
// address with fewer fields than it was given.
type Address struct {
	StreetLines         []string `json:"streetLines"`
	City                string   `json:"city"`
	StateOrProvinceCode string   `json:"stateOrProvinceCode"`
	PostalCode          string   `json:"postalCode"`
	CountryCode         string   `json:"countryCode"`
}

// NewAddress builds the candidate shipping address from an order row.
func NewAddress(order *Order) Address {
	return Address{
		StreetLines:         []string{order.Address1, order.Address2},
		City:                order.City,
		StateOrProvinceCode: order.State,
		PostalCode:          order.Zip,
		CountryCode:         order.Country,
	}
}

// NormalizeCountry upper-cases the country code and verifies it is a known
// ISO 3166-1 alpha-2 code.
func (a *Address) NormalizeCountry() error {
	code := strings.ToUpper(strings.TrimSpace(a.CountryCode))
	if countries.ByName(code) == countries.Unknown {
		return fmt.Errorf("unknown country code %q", a.CountryCode)
	}
	a.CountryCode = code
	return nil
}
