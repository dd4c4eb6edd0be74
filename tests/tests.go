// Package tests holds helpers shared by the package test suites: a seeded
// faker, a stub FedEx API server and fixture builders.
package tests

import (
	"encoding/base64"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/relay-resources/shipbulk/config"
	"github.com/relay-resources/shipbulk/core"
)

var Faker = gofakeit.New(rand.Uint64())

func Check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// FakeOrder builds an order with every mandatory field populated and a
// valid 10-character phone number.
func FakeOrder() core.Order {
	address := Faker.Address()
	return core.Order{
		BillingAccount: Faker.AchAccount(),
		OrderNum:       Faker.Numerify("OR######"),
		Company:        Faker.Company(),
		FirstName:      Faker.FirstName(),
		LastName:       Faker.LastName(),
		Address1:       address.Street,
		Address2:       "",
		City:           address.City,
		State:          "OR",
		Zip:            address.Zip,
		Country:        "US",
		Phone:          Faker.Numerify("##########"),
		ServiceType:    "FEDEX_GROUND",
		PackagingType:  "YOUR_PACKAGING",
		Weight:         "2",
		Len:            "10",
		Width:          "8",
		Height:         "4",
		ShipDate:       "2024-06-01",
	}
}

// Config builds a runnable configuration pointed at the given API base URL.
// Address verification starts disabled; tests flip it on where needed.
func Config(baseURL, labelDir string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "shipbulk-test"},
		FedEx: config.FedExConfig{
			APIKey:          "test-key",
			APISecret:       "test-secret",
			ShippingAccount: "740561073",
			BaseURL:         baseURL,
			FallbackPhone:   core.FallbackPhone,
		},
		Shipper: config.ShipperConfig{
			PersonName:  "JERRY ROUT",
			PhoneNumber: "5032611266",
			CompanyName: "RELAY RESOURCES",
			Street:      "5414 NE 148TH AVE",
			City:        "PORTLAND",
			State:       "OR",
			PostalCode:  "97230",
			Country:     "US",
		},
		Labels: config.LabelConfig{Dir: labelDir, StockType: "PAPER_4X6"},
	}
}

// FedExStub stands in for the three FedEx endpoints. Zero values give a
// healthy API; set the status fields to make individual endpoints fail.
type FedExStub struct {
	Token          string
	TrackingNumber string
	Label          []byte
	ShipStatus     int // 0 means 200
	ShipError      string
	ResolveStatus  int // 0 means 200
	Resolved       *core.Address

	AuthCalls    atomic.Int64
	ResolveCalls atomic.Int64
	ShipCalls    atomic.Int64

	// LastShipBody holds the raw body of the most recent shipment request.
	// The batch is strictly sequential so plain assignment is fine.
	LastShipBody []byte
}

func NewFedExStub() *FedExStub {
	return &FedExStub{
		Token:          "test-token",
		TrackingNumber: "794600000000",
		Label:          []byte("%PDF-1.4 fake label"),
	}
}

// Server starts an httptest server that answers like the FedEx sandbox.
func (s *FedExStub) Server() *httptest.Server {
	r := chi.NewRouter()

	r.Post("/oauth/token", func(w http.ResponseWriter, req *http.Request) {
		s.AuthCalls.Add(1)
		render.JSON(w, req, map[string]any{
			"access_token": s.Token,
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})

	r.Post("/address/v1/addresses/resolve", func(w http.ResponseWriter, req *http.Request) {
		s.ResolveCalls.Add(1)
		if s.ResolveStatus != 0 && s.ResolveStatus != http.StatusOK {
			render.Status(req, s.ResolveStatus)
			render.JSON(w, req, map[string]any{"errors": []map[string]string{
				{"code": "RESOLVE.ERROR", "message": "address could not be resolved"},
			}})
			return
		}
		resolved := s.Resolved
		if resolved == nil {
			body := struct {
				AddressesToValidate []struct {
					Address core.Address `json:"address"`
				} `json:"addressesToValidate"`
			}{}
			if err := render.DecodeJSON(req.Body, &body); err != nil || len(body.AddressesToValidate) == 0 {
				render.Status(req, http.StatusBadRequest)
				render.JSON(w, req, map[string]any{"errors": []map[string]string{}})
				return
			}
			resolved = &body.AddressesToValidate[0].Address
		}
		render.JSON(w, req, map[string]any{
			"output": map[string]any{
				"resolvedAddresses": []map[string]any{
					{
						"streetLinesToken":    resolved.StreetLines,
						"city":                resolved.City,
						"stateOrProvinceCode": resolved.StateOrProvinceCode,
						"postalCode":          resolved.PostalCode,
						"countryCode":         resolved.CountryCode,
					},
				},
			},
		})
	})

	r.Post("/ship/v1/shipments", func(w http.ResponseWriter, req *http.Request) {
		s.ShipCalls.Add(1)
		if body, err := io.ReadAll(req.Body); err == nil {
			s.LastShipBody = body
		}
		if s.ShipStatus != 0 && s.ShipStatus != http.StatusOK {
			message := s.ShipError
			if message == "" {
				message = "shipment could not be created"
			}
			render.Status(req, s.ShipStatus)
			render.JSON(w, req, map[string]any{"errors": []map[string]string{
				{"code": "SHIP.ERROR", "message": message},
			}})
			return
		}
		render.JSON(w, req, map[string]any{
			"output": map[string]any{
				"transactionShipments": []map[string]any{
					{
						"pieceResponses": []map[string]any{
							{
								"trackingNumber": s.TrackingNumber,
								"packageDocuments": []map[string]any{
									{"encodedLabel": base64.StdEncoding.EncodeToString(s.Label)},
								},
							},
						},
					},
				},
			},
		})
	})

	return httptest.NewServer(r)
}
