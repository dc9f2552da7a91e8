package points

import "errors"

var (
	// ErrInvalidAmount is returned when a spend asks for less than one point
	ErrInvalidAmount = errors.New("invalid amount: cannot spend less than one point")

	// ErrInsufficientPoints is returned when a spend exceeds the total points in the ledger
	ErrInsufficientPoints = errors.New("insufficient points")
)
