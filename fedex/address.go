package fedex

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/relay-resources/shipbulk/core"
)

type resolveRequest struct {
	AddressesToValidate []addressToValidate `json:"addressesToValidate"`
}

type addressToValidate struct {
	Address core.Address `json:"address"`
}

type resolveResponse struct {
	Output struct {
		ResolvedAddresses []resolvedAddress `json:"resolvedAddresses"`
	} `json:"output"`
}

type resolvedAddress struct {
	StreetLinesToken    []string `json:"streetLinesToken"`
	City                string   `json:"city"`
	StateOrProvinceCode string   `json:"stateOrProvinceCode"`
	PostalCode          string   `json:"postalCode"`
	CountryCode         string   `json:"countryCode"`
}

// ResolveAddress submits a candidate address for correction and returns the
// carrier's canonical version. Every failure mode (network, non-200,
// malformed body, empty result) returns the candidate unchanged: a label on
// an unverified address beats blocking the batch, so nothing here is treated
// as an error. A failing address will surface later as a failed shipment and
// needs manual intervention either way.
func (c *Client) ResolveAddress(
	ctx context.Context,
	address core.Address,
	token string,
) core.Address {
	body, err := json.Marshal(resolveRequest{
		AddressesToValidate: []addressToValidate{{Address: address}},
	})
	if err != nil {
		return address
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/address/v1/addresses/resolve",
		bytes.NewReader(body),
	)
	if err != nil {
		return address
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("Address resolution unreachable, using candidate address", "error", err)
		return address
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Address resolution refused, using candidate address", "status", resp.StatusCode)
		return address
	}

	data := resolveResponse{}
	if err := render.DecodeJSON(resp.Body, &data); err != nil {
		slog.Debug("Cannot decode resolved address, using candidate address", "error", err)
		return address
	}
	if len(data.Output.ResolvedAddresses) == 0 {
		return address
	}

	resolved := data.Output.ResolvedAddresses[0]
	return core.Address{
		StreetLines:         resolved.StreetLinesToken,
		City:                resolved.City,
		StateOrProvinceCode: resolved.StateOrProvinceCode,
		PostalCode:          resolved.PostalCode,
		CountryCode:         resolved.CountryCode,
	}
}
