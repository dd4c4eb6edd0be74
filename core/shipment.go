package core

// ShipmentResult is the terminal outcome of one label-creation attempt.
// A result is either shipped with a tracking number or failed with a reason;
// there is no numeric sentinel that could be mistaken for a tracking number.
type ShipmentResult struct {
	trackingNumber string
	reason         string
	shipped        bool
}

// Shipped marks a successful label creation.
func Shipped(trackingNumber string) ShipmentResult {
	return ShipmentResult{trackingNumber: trackingNumber, shipped: true}
}

// Failed marks a label creation that could not be completed.
func Failed(reason string) ShipmentResult {
	return ShipmentResult{reason: reason}
}

func (r ShipmentResult) Succeeded() bool { return r.shipped }

// TrackingNumber is only meaningful when Succeeded() is true.
func (r ShipmentResult) TrackingNumber() string { return r.trackingNumber }

// Reason is only meaningful when Succeeded() is false.
func (r ShipmentResult) Reason() string { return r.reason }
