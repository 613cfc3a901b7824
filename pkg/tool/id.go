package tool

import "github.com/google/uuid"

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateTransactionID returns a gateway-side transaction handle. UUIDv7 keeps
// the identifiers time-ordered without the collision risk of a bare timestamp.
func GenerateTransactionID() string {
	return "TXN_" + GenerateUUIDV7()
}
