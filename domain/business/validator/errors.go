package validator

import "errors"

// Rejection reasons. The error text is the label reported in the run's
// rejection histogram, so it must stay stable
var (
	ErrMissingField      = errors.New("Missing required field")
	ErrInvalidDuration   = errors.New("Invalid duration")
	ErrZeroCoordinates   = errors.New("Zero coordinates")
	ErrInvalidPickup     = errors.New("Invalid pickup coordinates")
	ErrInvalidDropoff    = errors.New("Invalid dropoff coordinates")
	ErrInvalidDatetime   = errors.New("Invalid datetime format")
	ErrInvalidSequence   = errors.New("Invalid trip sequence")
	ErrTripTooShort      = errors.New("Trip too short")
	ErrUnrealisticSpeed  = errors.New("Unrealistic speed")
	ErrProcessingFailure = errors.New("Processing error")
)
