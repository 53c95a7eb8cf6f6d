package common

import "errors"

// ErrUnauthorized is returned when a caller lacks the privilege an operation
// requires (admin-only or owner-only calls).
var ErrUnauthorized = errors.New("auth: caller not authorized")

// Authorizer abstracts caller verification. The ledger never inspects
// signatures itself; it asks the injected collaborator whether the supplied
// address has authorised the in-flight call.
type Authorizer interface {
	RequireAuthorized(addr string) error
}

// AuthorizerFunc adapts a plain function to the Authorizer interface.
type AuthorizerFunc func(addr string) error

// RequireAuthorized implements the Authorizer interface.
func (f AuthorizerFunc) RequireAuthorized(addr string) error {
	return f(addr)
}

// AllowAll returns an authorizer that accepts every caller. It is intended for
// tests and for deployments where authentication happens upstream of the
// ledger boundary.
func AllowAll() Authorizer {
	return AuthorizerFunc(func(string) error { return nil })
}
