// Package fedex is a thin client for the three FedEx REST endpoints the
// bulk shipping tool drives: the OAuth token exchange, address resolution
// and shipment (label) creation.
package fedex

import (
	"net/http"
	"time"

	"github.com/relay-resources/shipbulk/config"
	"github.com/relay-resources/shipbulk/core"
)

type Client struct {
	baseURL         string
	http            *http.Client
	apiKey          string
	apiSecret       string
	shippingAccount string
	shipper         Party
	stockType       string
	labelDir        string
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:         cfg.FedEx.BaseURL,
		http:            &http.Client{Timeout: 30 * time.Second},
		apiKey:          cfg.FedEx.APIKey,
		apiSecret:       cfg.FedEx.APISecret,
		shippingAccount: cfg.FedEx.ShippingAccount,
		shipper:         ShipperParty(cfg.Shipper),
		stockType:       cfg.Labels.StockType,
		labelDir:        cfg.Labels.Dir,
	}
}

// ShipperParty converts the configured sender block into the wire shape.
func ShipperParty(shipper config.ShipperConfig) Party {
	return Party{
		Contact: Contact{
			PersonName:  shipper.PersonName,
			PhoneNumber: shipper.PhoneNumber,
			CompanyName: shipper.CompanyName,
		},
		Address: core.Address{
			StreetLines:         []string{shipper.Street},
			City:                shipper.City,
			StateOrProvinceCode: shipper.State,
			PostalCode:          shipper.PostalCode,
			CountryCode:         shipper.Country,
		},
	}
}
