package fedex

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/render"
	"github.com/relay-resources/shipbulk/core"
)

/**
 * WIRE FORMAT
 */

type ShipmentRequest struct {
	LabelResponseOptions string            `json:"labelResponseOptions"`
	RequestedShipment    RequestedShipment `json:"requestedShipment"`
	AccountNumber        AccountNumber     `json:"accountNumber"`
}

type RequestedShipment struct {
	Shipper                   Party                  `json:"shipper"`
	Recipients                []Party                `json:"recipients"`
	ShipDatestamp             string                 `json:"shipDatestamp"`
	ServiceType               string                 `json:"serviceType"`
	PackagingType             string                 `json:"packagingType"`
	PickupType                string                 `json:"pickupType"`
	BlockInsightVisibility    bool                   `json:"blockInsightVisibility"`
	ShippingChargesPayment    ShippingChargesPayment `json:"shippingChargesPayment"`
	LabelSpecification        LabelSpecification     `json:"labelSpecification"`
	RequestedPackageLineItems []PackageLineItem      `json:"requestedPackageLineItems"`
}

type Party struct {
	Contact Contact      `json:"contact"`
	Address core.Address `json:"address"`
}

type Contact struct {
	PersonName  string `json:"personName"`
	PhoneNumber string `json:"phoneNumber"`
	CompanyName string `json:"companyName"`
}

type ShippingChargesPayment struct {
	PaymentType string `json:"paymentType"`
	Payor       Payor  `json:"payor"`
}

type Payor struct {
	ResponsibleParty ResponsibleParty `json:"responsibleParty"`
}

type ResponsibleParty struct {
	AccountNumber AccountNumber `json:"accountNumber"`
}

type AccountNumber struct {
	Value string `json:"value"`
}

type LabelSpecification struct {
	ImageType      string `json:"imageType"`
	LabelStockType string `json:"labelStockType"`
}

type PackageLineItem struct {
	Weight             Weight              `json:"weight"`
	Dimensions         Dimensions          `json:"dimensions"`
	CustomerReferences []CustomerReference `json:"customerReferences"`
}

type Weight struct {
	Value string `json:"value"`
	Units string `json:"units"`
}

type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
	Units  string `json:"units"`
}

type CustomerReference struct {
	CustomerReferenceType string `json:"customerReferenceType"`
	Value                 string `json:"value"`
}

type shipmentResponse struct {
	Output struct {
		TransactionShipments []struct {
			PieceResponses []struct {
				TrackingNumber   string `json:"trackingNumber"`
				PackageDocuments []struct {
					EncodedLabel string `json:"encodedLabel"`
				} `json:"packageDocuments"`
			} `json:"pieceResponses"`
		} `json:"transactionShipments"`
	} `json:"output"`
}

type apiErrorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

const noResponseReason = "could not get response from server"

// BuildPayload assembles the full label-creation request for one order.
// The payment block always charges the account we ship on, not the row's
// billing account: the row value is carried through to the output CSV for
// bookkeeping but third-party billing is arranged outside this tool.
func (c *Client) BuildPayload(order *core.Order, address core.Address) ShipmentRequest {
	return ShipmentRequest{
		LabelResponseOptions: "LABEL",
		RequestedShipment: RequestedShipment{
			Shipper: c.shipper,
			Recipients: []Party{
				{
					Contact: Contact{
						PersonName:  order.RecipientName(),
						PhoneNumber: order.Phone,
						CompanyName: order.Company,
					},
					Address: address,
				},
			},
			ShipDatestamp:          order.ShipDate,
			ServiceType:            order.ServiceType,
			PackagingType:          order.PackagingType,
			PickupType:             "USE_SCHEDULED_PICKUP",
			BlockInsightVisibility: false,
			ShippingChargesPayment: ShippingChargesPayment{
				PaymentType: "THIRD_PARTY",
				Payor: Payor{
					ResponsibleParty: ResponsibleParty{
						AccountNumber: AccountNumber{Value: c.shippingAccount},
					},
				},
			},
			LabelSpecification: LabelSpecification{
				ImageType:      "PDF",
				LabelStockType: c.stockType,
			},
			RequestedPackageLineItems: []PackageLineItem{
				{
					Weight: Weight{Value: order.Weight, Units: "LB"},
					Dimensions: Dimensions{
						Length: order.Len,
						Width:  order.Width,
						Height: order.Height,
						Units:  "IN",
					},
					CustomerReferences: []CustomerReference{
						{
							CustomerReferenceType: "CUSTOMER_REFERENCE",
							Value:                 order.OrderNum,
						},
					},
				},
			},
		},
		AccountNumber: AccountNumber{Value: c.shippingAccount},
	}
}

// Reference returns the customer reference this payload was built for,
// used when reporting a failed shipment.
func (r ShipmentRequest) Reference() string {
	items := r.RequestedShipment.RequestedPackageLineItems
	if len(items) == 0 || len(items[0].CustomerReferences) == 0 {
		return ""
	}
	return items[0].CustomerReferences[0].Value
}

// CreateShipment submits one label-creation request. On success the label
// document is decoded and written to <labelDir>/<trackingNumber>.pdf and the
// tracking number is returned. Every failure is contained here: the order is
// marked failed with the carrier's reason when one was given, and the batch
// moves on. Fire-once — no retry, rerunning a failed order risks a duplicate
// label on the account.
func (c *Client) CreateShipment(
	ctx context.Context,
	payload ShipmentRequest,
	token string,
) core.ShipmentResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return core.Failed(fmt.Sprintf("cannot encode shipment request: %v", err))
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/ship/v1/shipments",
		bytes.NewReader(body),
	)
	if err != nil {
		return core.Failed(fmt.Sprintf("cannot create shipment request: %v", err))
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("Could not ship order", "reference", payload.Reference(), "reason", noResponseReason)
		return core.Failed(noResponseReason)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		reason := noResponseReason
		apiErr := apiErrorResponse{}
		if err := render.DecodeJSON(resp.Body, &apiErr); err == nil && len(apiErr.Errors) > 0 {
			reason = apiErr.Errors[0].Message
		}
		slog.Warn("Could not ship order", "reference", payload.Reference(), "reason", reason)
		return core.Failed(reason)
	}

	data := shipmentResponse{}
	if err := render.DecodeJSON(resp.Body, &data); err != nil {
		slog.Warn("Could not ship order", "reference", payload.Reference(), "reason", noResponseReason)
		return core.Failed(noResponseReason)
	}
	if len(data.Output.TransactionShipments) == 0 ||
		len(data.Output.TransactionShipments[0].PieceResponses) == 0 {
		slog.Warn("Could not ship order", "reference", payload.Reference(), "reason", noResponseReason)
		return core.Failed(noResponseReason)
	}

	piece := data.Output.TransactionShipments[0].PieceResponses[0]

	if len(piece.PackageDocuments) > 0 {
		if err := c.saveLabel(piece.TrackingNumber, piece.PackageDocuments[0].EncodedLabel); err != nil {
			// The label has already been created (and billed) at this
			// point; losing the local copy must not mark the order failed.
			slog.Error("Label created but could not be saved",
				"tracking_number", piece.TrackingNumber, "error", err)
		}
	}

	return core.Shipped(piece.TrackingNumber)
}

func (c *Client) saveLabel(trackingNumber, encodedLabel string) error {
	label, err := base64.StdEncoding.DecodeString(encodedLabel)
	if err != nil {
		return fmt.Errorf("cannot decode label document: %w", err)
	}
	if err := os.MkdirAll(c.labelDir, 0o755); err != nil {
		return fmt.Errorf("cannot create label directory: %w", err)
	}
	path := filepath.Join(c.labelDir, trackingNumber+".pdf")
	if err := os.WriteFile(path, label, 0o644); err != nil {
		return fmt.Errorf("cannot write label file: %w", err)
	}
	return nil
}
