package swap

import "errors"

var (
	// ErrOrderNotFound indicates the referenced order id has never been assigned.
	ErrOrderNotFound = errors.New("swap: order not found")
	// ErrInvalidAmount indicates a swap amount was nil or not strictly positive.
	ErrInvalidAmount = errors.New("swap: amount must be positive")
	// ErrInvalidPair indicates the two asset codes do not form a valid pool pair.
	ErrInvalidPair = errors.New("swap: invalid asset pair")
	// ErrInvalidFee indicates a pool fee rate at or above the basis-point denominator.
	ErrInvalidFee = errors.New("swap: fee rate out of range")
	// ErrInvalidReserve indicates a pool reserve that was nil or not strictly positive.
	ErrInvalidReserve = errors.New("swap: reserve must be positive")
	// ErrDivideByZero indicates the quote denominator evaluated to zero.
	ErrDivideByZero = errors.New("swap: quote divides by zero")
)
