// Package checkout turns a customer's cart, or a cashier's selection, into an order.
package checkout

import (
	"errors"

	"github.com/yeremiapane/steakz-restaurant/client/api"
)

const (
	MsgCartEmpty        = "Your cart is empty"
	MsgSelectPayment    = "Please select a payment method"
	MsgSelectItems      = "Please select at least one item."
	MsgWalkInRequired   = "Please enter walk-in customer name or phone."
	MsgNoBranchAssigned = "No branch assigned. Please contact admin."
)

// ValidationError is a problem found before anything was sent to the server.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err was raised before any server call.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// FailureMessage is the text to show for a failed checkout.
func FailureMessage(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	return "Checkout failed: " + api.Message(err, "Unknown error")
}
