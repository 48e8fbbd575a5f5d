package model

import (
	"fmt"
)

const (
	DestinationProduct  Destination = "product"
	DestinationCheckout Destination = "checkout"
)

// Destination is the configured redirect target kind for a record. The set is
// closed; resolving any other value fails with UnrecognizedDestinationError.
type Destination string

func (d Destination) IsValid() error {
	switch d {
	case DestinationProduct, DestinationCheckout:
		return nil
	}

	return &UnrecognizedDestinationError{Value: string(d)}
}

// UnrecognizedDestinationError carries the offending destination value. It is
// raised only at resolve time; the store persists whatever it is given.
type UnrecognizedDestinationError struct {
	Value string
}

func (e *UnrecognizedDestinationError) Error() string {
	return fmt.Sprintf("unrecognized destination %q", e.Value)
}
