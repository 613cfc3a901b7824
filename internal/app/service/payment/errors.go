package payment

import "errors"

// The only error kinds that cross the engine boundary. Anything unexpected is
// wrapped before it leaves (see Service).
var (
	// ErrInvalidRequest marks malformed or semantically invalid process input.
	ErrInvalidRequest = errors.New("invalid payment request")
	// ErrPaymentNotFound marks an unknown payment id.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrInvalidTransition marks a status change the state machine forbids,
	// including refunds of non-completed payments.
	ErrInvalidTransition = errors.New("invalid payment status transition")
	// ErrGatewayFailure marks a gateway decision that could not complete
	// (timeout, cancellation). Recovered locally: the record goes to FAILED.
	ErrGatewayFailure = errors.New("payment gateway failure")
)
