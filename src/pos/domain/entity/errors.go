package entity

import (
	"errors"
	"fmt"
)

var (
	ErrOperatorRequired     = errors.New("operator_id is required")
	ErrProductIDRequired    = errors.New("product_id is required")
	ErrItemIDRequired       = errors.New("item_id is required")
	ErrInvalidQuantity      = errors.New("quantity must be greater than 0")
	ErrQuantityNotNumeric   = errors.New("quantity must be a whole number")
	ErrQuantityNegative     = errors.New("quantity cannot be negative")
	ErrCartBusy             = errors.New("the cart is being updated, wait for it to finish")
	ErrCartEmpty            = errors.New("the cart is empty")
	ErrRegisterClosed       = errors.New("open your register first")
	ErrRegisterNotOpen      = errors.New("there is no open register to close")
	ErrNegativeAmount       = errors.New("amount must be greater than or equal to 0")
	ErrCustomerRequired     = errors.New("select a customer first")
	ErrCustomerIDRequired   = errors.New("customer_id is required")
	ErrCouponCodeRequired   = errors.New("coupon code is required")
	ErrCouponNotApplicable  = errors.New("coupon is not valid for this customer")
	ErrCouponNotApplied     = errors.New("the applied coupon does not belong to the selected customer")
	ErrInvalidCouponKind    = errors.New("invalid coupon kind")
	ErrInvalidTender        = errors.New("invalid payment method")
	ErrCheckoutInProgress   = errors.New("a sale is already being submitted")
	ErrRewardIDRequired     = errors.New("reward_id is required")
	ErrConfirmationRequired = errors.New("reward redemption must be confirmed")
	ErrRewardNotForCustomer = errors.New("rewards can only be redeemed for the selected customer")
)

// GenericRemoteMessage se muestra cuando el backend no devuelve un mensaje propio
const GenericRemoteMessage = "the server could not complete the request, try again"

// ValidationError error local detectado antes de cualquier llamada de red
type ValidationError struct {
	Err error
}

// NewValidationError envuelve un error de validación local
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Err: err}
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RemoteError error devuelto por el backend (red, 4xx o 5xx)
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GenericRemoteMessage
	}
	if e.Status > 0 {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// UserMessage mensaje que se muestra al usuario: el del backend si existe, genérico si no
func (e *RemoteError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericRemoteMessage
}

// IsNotFound indica si el backend respondió 404
func (e *RemoteError) IsNotFound() bool {
	return e.Status == 404
}

// IsValidation verifica si el error es de validación local
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// AsRemote extrae el RemoteError de la cadena de errores
func AsRemote(err error) (*RemoteError, bool) {
	var r *RemoteError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
