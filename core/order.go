package core

import (
	"fmt"
	"strings"
)

/**
 * DOMAIN
 */

// Order is one row of the unshipped-orders input file.
// Every field is a string because the input is CSV; columns that are absent
// from the file simply load as "".
type Order struct {
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
	Country        string
	Phone          string
	ServiceType    string
	PackagingType  string
	Weight         string
	Len            string
	Width          string
	Height         string
	ShipDate       string
}

// FallbackPhone is substituted whenever a row's phone number is not exactly
// 10 characters. The carrier rejects anything else, and a wrong-but-valid
// number on the label beats losing the whole batch.
const FallbackPhone = "5032611266"

const phoneLength = 10

// RecipientName combines the optional name parts into the contact name that
// ends up on the label.
func (o *Order) RecipientName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// Normalize applies the phone rule and then checks that every mandatory
// field is present. A missing mandatory field wraps ErrMissingField and is
// fatal to the whole batch at the caller.
//
// Optional fields (orderNum, company, firstName, lastName, address2, zip,
// shipDate) need no defaulting: absent columns already load as "".
func (o *Order) Normalize(fallbackPhone string) error {
	if fallbackPhone == "" {
		fallbackPhone = FallbackPhone
	}
	if len(o.Phone) != phoneLength {
		o.Phone = fallbackPhone
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"billingAccount", o.BillingAccount},
		{"address1", o.Address1},
		{"city", o.City},
		{"state", o.State},
		{"country", o.Country},
		{"phone", o.Phone},
		{"serviceType", o.ServiceType},
		{"packagingType", o.PackagingType},
		{"weight", o.Weight},
		{"len", o.Len},
		{"width", o.Width},
		{"height", o.Height},
	} {
		if len(field.value) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}
	return nil
}
