package batch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/relay-resources/shipbulk/batch"
	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	t.Run("ok: csv contains the fixed header and one row per shipped order", func(t *testing.T) {
		report := &batch.Report{
			RunID: uuid.New(),
			Shipped: []batch.ShippedOrder{
				{
					BillingAccount: "123456789",
					OrderNum:       "OR1",
					Company:        "RELAY RESOURCES",
					FirstName:      "Ada",
					LastName:       "Lovelace",
					Address1:       "5414 NE 148TH AVE",
					City:           "PORTLAND",
					State:          "OR",
					Zip:            "97230",
					Phone:          "5032611266",
					TrackingNumber: "794600000000",
				},
			},
		}

		path := filepath.Join(t.TempDir(), "completedOrders.csv")
		assert.Nil(t, report.WriteCSV(path))

		content, err := os.ReadFile(path)
		assert.Nil(t, err)
		assert.Equal(t,
			"billingAccount,orderNum,company,firstName,lastName,address1,address2,city,state,zip,phone,trackingNumber\n"+
				"123456789,OR1,RELAY RESOURCES,Ada,Lovelace,5414 NE 148TH AVE,,PORTLAND,OR,97230,5032611266,794600000000\n",
			string(content),
		)
	})

	t.Run("ok: empty report still writes the header", func(t *testing.T) {
		report := &batch.Report{RunID: uuid.New()}
		path := filepath.Join(t.TempDir(), "completedOrders.csv")
		assert.Nil(t, report.WriteCSV(path))

		content, err := os.ReadFile(path)
		assert.Nil(t, err)
		assert.Equal(t,
			"billingAccount,orderNum,company,firstName,lastName,address1,address2,city,state,zip,phone,trackingNumber\n",
			string(content),
		)
	})

	t.Run("ok: failed summary", func(t *testing.T) {
		report := &batch.Report{RunID: uuid.New()}
		assert.Equal(t, "None", report.FailedSummary())

		report.Failed = append(report.Failed, "OR1", "OR7")
		assert.Equal(t, "OR1, OR7", report.FailedSummary())
	})
}
