package batch_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/relay-resources/shipbulk/batch"
	"github.com/relay-resources/shipbulk/core"
	"github.com/relay-resources/shipbulk/fedex"
	"github.com/relay-resources/shipbulk/tests"
	"github.com/stretchr/testify/assert"
)

func TestProcessorRun(t *testing.T) {
	ctx := context.Background()

	t.Run("ok: one order end to end", func(t *testing.T) {
		stub := tests.NewFedExStub()
		server := stub.Server()
		defer server.Close()

		labelDir := t.TempDir()
		cfg := tests.Config(server.URL, labelDir)
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		order := tests.FakeOrder()
		report, err := processor.Run(ctx, []core.Order{order})
		assert.Nil(t, err)
		assert.Len(t, report.Shipped, 1)
		assert.Equal(t, "794600000000", report.Shipped[0].TrackingNumber)
		assert.Equal(t, order.OrderNum, report.Shipped[0].OrderNum)
		assert.Equal(t, "None", report.FailedSummary())

		_, err = os.Stat(filepath.Join(labelDir, "794600000000.pdf"))
		assert.Nil(t, err, "the label file should exist for the shipped order")

		path := filepath.Join(t.TempDir(), "completedOrders.csv")
		assert.Nil(t, report.WriteCSV(path))
		content, readErr := os.ReadFile(path)
		assert.Nil(t, readErr)
		assert.Contains(t, string(content), ",794600000000\n")
	})

	t.Run("ok: a failed shipment lands on the failed list and the batch continues", func(t *testing.T) {
		stub := tests.NewFedExStub()
		stub.ShipStatus = http.StatusInternalServerError
		server := stub.Server()
		defer server.Close()

		labelDir := t.TempDir()
		cfg := tests.Config(server.URL, labelDir)
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		order := tests.FakeOrder()
		report, err := processor.Run(ctx, []core.Order{order})
		assert.Nil(t, err, "a per-order failure must not abort the batch")
		assert.Empty(t, report.Shipped)
		assert.Equal(t, []string{order.OrderNum}, report.Failed)

		entries, readErr := os.ReadDir(labelDir)
		assert.Nil(t, readErr)
		assert.Empty(t, entries)

		path := filepath.Join(t.TempDir(), "completedOrders.csv")
		assert.Nil(t, report.WriteCSV(path))
		content, readErr := os.ReadFile(path)
		assert.Nil(t, readErr)
		assert.Equal(t,
			"billingAccount,orderNum,company,firstName,lastName,address1,address2,city,state,zip,phone,trackingNumber\n",
			string(content), "a failed order may not produce an output row")
	})

	t.Run("err: a missing mandatory field aborts the whole batch", func(t *testing.T) {
		stub := tests.NewFedExStub()
		server := stub.Server()
		defer server.Close()

		cfg := tests.Config(server.URL, t.TempDir())
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		bad := tests.FakeOrder()
		bad.Weight = ""
		good := tests.FakeOrder()

		_, err := processor.Run(ctx, []core.Order{bad, good})
		assert.True(t, errors.Is(err, core.ErrMissingField))
		assert.EqualValues(t, 0, stub.ShipCalls.Load(),
			"no order may ship once a mandatory field is found missing")
	})

	t.Run("err: failed authentication aborts before any order", func(t *testing.T) {
		cfg := tests.Config("http://127.0.0.1:1", t.TempDir())
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		_, err := processor.Run(ctx, []core.Order{tests.FakeOrder()})
		assert.True(t, errors.Is(err, core.ErrAuthentication))
	})

	t.Run("ok: authentication happens exactly once per batch", func(t *testing.T) {
		stub := tests.NewFedExStub()
		server := stub.Server()
		defer server.Close()

		cfg := tests.Config(server.URL, t.TempDir())
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		orders := []core.Order{tests.FakeOrder(), tests.FakeOrder(), tests.FakeOrder()}
		report, err := processor.Run(ctx, orders)
		assert.Nil(t, err)
		assert.Len(t, report.Shipped, 3)
		assert.EqualValues(t, 1, stub.AuthCalls.Load())
		assert.EqualValues(t, 3, stub.ShipCalls.Load())
	})

	t.Run("ok: verification disabled never calls the resolver", func(t *testing.T) {
		stub := tests.NewFedExStub()
		server := stub.Server()
		defer server.Close()

		cfg := tests.Config(server.URL, t.TempDir())
		cfg.FedEx.VerifyAddresses = false
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		order := tests.FakeOrder()
		_, err := processor.Run(ctx, []core.Order{order})
		assert.Nil(t, err)
		assert.EqualValues(t, 0, stub.ResolveCalls.Load())

		assert.Equal(t, core.NewAddress(&order), shippedAddress(t, stub.LastShipBody),
			"with verification off the label must carry the row-derived address")
	})

	t.Run("ok: failed verification falls back to the candidate address", func(t *testing.T) {
		stub := tests.NewFedExStub()
		stub.ResolveStatus = http.StatusServiceUnavailable
		server := stub.Server()
		defer server.Close()

		cfg := tests.Config(server.URL, t.TempDir())
		cfg.FedEx.VerifyAddresses = true
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		order := tests.FakeOrder()
		report, err := processor.Run(ctx, []core.Order{order})
		assert.Nil(t, err, "verification failure is silent and never aborts the batch")
		assert.Len(t, report.Shipped, 1)
		assert.EqualValues(t, 1, stub.ResolveCalls.Load())

		assert.Equal(t, core.NewAddress(&order), shippedAddress(t, stub.LastShipBody))
	})

	t.Run("ok: verification enabled ships the resolved address", func(t *testing.T) {
		stub := tests.NewFedExStub()
		stub.Resolved = &core.Address{
			StreetLines:         []string{"5414 NE 148TH AVE"},
			City:                "PORTLAND",
			StateOrProvinceCode: "OR",
			PostalCode:          "97230-3438",
			CountryCode:         "US",
		}
		server := stub.Server()
		defer server.Close()

		cfg := tests.Config(server.URL, t.TempDir())
		cfg.FedEx.VerifyAddresses = true
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		_, err := processor.Run(ctx, []core.Order{tests.FakeOrder()})
		assert.Nil(t, err)
		assert.Equal(t, *stub.Resolved, shippedAddress(t, stub.LastShipBody))
	})

	t.Run("ok: a short phone ships with the fallback number", func(t *testing.T) {
		stub := tests.NewFedExStub()
		server := stub.Server()
		defer server.Close()

		cfg := tests.Config(server.URL, t.TempDir())
		processor := batch.NewProcessor(cfg, fedex.New(cfg))

		order := tests.FakeOrder()
		order.Phone = "503-261-1266"
		report, err := processor.Run(ctx, []core.Order{order})
		assert.Nil(t, err)
		assert.Equal(t, core.FallbackPhone, report.Shipped[0].Phone)
	})
}

// shippedAddress digs the recipient address out of a captured shipment body.
func shippedAddress(t *testing.T, body []byte) core.Address {
	t.Helper()
	payload := fedex.ShipmentRequest{}
	assert.Nil(t, json.Unmarshal(body, &payload))
	if !assert.Len(t, payload.RequestedShipment.Recipients, 1) {
		return core.Address{}
	}
	return payload.RequestedShipment.Recipients[0].Address
}
