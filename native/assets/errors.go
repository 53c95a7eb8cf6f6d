package assets

import "errors"

var (
	// ErrAssetNotFound indicates the referenced asset code has never been registered.
	ErrAssetNotFound = errors.New("assets: asset not found")
	// ErrInvalidPrice indicates a reference price was nil or negative.
	ErrInvalidPrice = errors.New("assets: invalid reference price")
	// ErrInvalidBalance indicates a balance was nil or negative.
	ErrInvalidBalance = errors.New("assets: invalid balance")
	// ErrInsufficientBalance indicates a debit would drive a holding negative.
	ErrInsufficientBalance = errors.New("assets: insufficient balance")
)
