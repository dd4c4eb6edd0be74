package batch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/relay-resources/shipbulk/config"
	"github.com/relay-resources/shipbulk/core"
	"github.com/relay-resources/shipbulk/fedex"
)

// Processor drives one batch run: authenticate once, then push every order
// through normalization, address resolution and label creation, strictly in
// sequence. The succeeded/failed accumulators live here and nowhere else.
type Processor struct {
	cfg    *config.Config
	client *fedex.Client
	runID  uuid.UUID
}

func NewProcessor(cfg *config.Config, client *fedex.Client) *Processor {
	return &Processor{
		cfg:    cfg,
		client: client,
		runID:  uuid.New(),
	}
}

func (p *Processor) RunID() uuid.UUID { return p.runID }

// Run processes the orders and returns the completed report.
//
// Fatal errors (a missing mandatory field, failed authentication) abort the
// whole batch and return a nil report; a per-order shipment failure only
// lands that order on the failed list. One order is fully settled — address
// resolved, label created, label file written — before the next one starts.
func (p *Processor) Run(ctx context.Context, orders []core.Order) (*Report, error) {
	slog.Info("Starting batch run",
		"run_id", p.runID,
		"orders", len(orders),
		"verify_addresses", p.cfg.FedEx.VerifyAddresses,
	)

	token, err := p.client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: p.runID}

	for i := range orders {
		order := &orders[i]

		if err := order.Normalize(p.cfg.FedEx.FallbackPhone); err != nil {
			return nil, err
		}

		address := core.NewAddress(order)
		// Presence is all we validate; an unrecognized country code still
		// goes to the carrier as-is and fails there if it has to.
		if err := address.NormalizeCountry(); err != nil {
			slog.Debug("Country code not recognized, sending unchanged",
				"order", order.OrderNum, "country", order.Country)
		}

		if p.cfg.FedEx.VerifyAddresses {
			address = p.client.ResolveAddress(ctx, address, token)
		}

		payload := p.client.BuildPayload(order, address)
		result := p.client.CreateShipment(ctx, payload, token)

		if result.Succeeded() {
			report.Shipped = append(report.Shipped, shippedOrder(order, result.TrackingNumber()))
			slog.Info("Order shipped",
				"order", order.OrderNum,
				"tracking_number", result.TrackingNumber(),
			)
		} else {
			report.Failed = append(report.Failed, order.OrderNum)
		}
	}

	slog.Info("Batch run finished",
		"run_id", p.runID,
		"shipped", len(report.Shipped),
		"failed", len(report.Failed),
	)

	return report, nil
}
