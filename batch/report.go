package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/relay-resources/shipbulk/core"
)

// OutputHeader is the fixed header of the completed-orders CSV. The layout
// is what the downstream Excel import expects; do not reorder.
var OutputHeader = []string{
	"billingAccount", "orderNum", "company", "firstName", "lastName",
	"address1", "address2", "city", "state", "zip", "phone", "trackingNumber",
}

// ShippedOrder is one completed order, ready for the output CSV.
type ShippedOrder struct {
	BillingAccount string
	OrderNum       string
	Company        string
	FirstName      string
	LastName       string
	Address1       string
	Address2       string
	City           string
	State          string
	Zip            string
	Phone          string
	TrackingNumber string
}

func shippedOrder(order *core.Order, trackingNumber string) ShippedOrder {
	return ShippedOrder{
		BillingAccount: order.BillingAccount,
		OrderNum:       order.OrderNum,
		Company:        order.Company,
		FirstName:      order.FirstName,
		LastName:       order.LastName,
		Address1:       order.Address1,
		Address2:       order.Address2,
		City:           order.City,
		State:          order.State,
		Zip:            order.Zip,
		Phone:          order.Phone,
		TrackingNumber: trackingNumber,
	}
}

func (o ShippedOrder) row() []string {
	return []string{
		o.BillingAccount, o.OrderNum, o.Company, o.FirstName, o.LastName,
		o.Address1, o.Address2, o.City, o.State, o.Zip, o.Phone, o.TrackingNumber,
	}
}

// Report accumulates the outcome of one batch run. Both lists are
// append-only and owned by the processor; rows appear in input order.
type Report struct {
	RunID   uuid.UUID
	Shipped []ShippedOrder
	Failed  []string
}

// WriteCSV writes the completed-orders file: the fixed header plus one row
// per shipped order.
func (r *Report) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(OutputHeader); err != nil {
		return fmt.Errorf("cannot write output header: %w", err)
	}
	for _, order := range r.Shipped {
		if err := writer.Write(order.row()); err != nil {
			return fmt.Errorf("cannot write output row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("cannot flush output file: %w", err)
	}
	return nil
}

// FailedSummary lists the order numbers that could not be shipped, or
// "None" so the operator never mistakes an empty report for a missing one.
func (r *Report) FailedSummary() string {
	if len(r.Failed) == 0 {
		return "None"
	}
	return strings.Join(r.Failed, ", ")
}
