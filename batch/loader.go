package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/relay-resources/shipbulk/core"
)

// LoadOrders reads the unshipped-orders CSV. The first row must be a header;
// recognized columns are mapped onto the order, unknown columns are ignored
// and columns absent from the file load as "". Rows come back in file order.
func LoadOrders(path string) ([]core.Order, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrBadInputFile, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file has no header row", core.ErrBadInputFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrBadInputFile, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	var orders []core.Order
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrBadInputFile, err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		orders = append(orders, core.Order{
			BillingAccount: field("billingAccount"),
			OrderNum:       field("orderNum"),
			Company:        field("company"),
			FirstName:      field("firstName"),
			LastName:       field("lastName"),
			Address1:       field("address1"),
			Address2:       field("address2"),
			City:           field("city"),
			State:          field("state"),
			Zip:            field("zip"),
			Country:        field("country"),
			Phone:          field("phone"),
			ServiceType:    field("serviceType"),
			PackagingType:  field("packagingType"),
			Weight:         field("weight"),
			Len:            field("len"),
			Width:          field("width"),
			Height:         field("height"),
			ShipDate:       field("shipDate"),
		})
	}

	return orders, nil
}
