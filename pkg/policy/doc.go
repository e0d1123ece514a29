// Package policy implements the authorization and lifecycle core shared by
// every resource service: the result pager, the field-level change policy,
// the state transition guards and the authorization gate that combines them
// into per-operation decisions. Everything in this package is pure and
// stateless; it is safe to call concurrently across requests.
package policy
