// Package mocks provides hand-rolled test doubles for the application's
// store and service interfaces. Each mock exposes function fields for
// customizable behavior plus a small in-memory default implementation.
package mocks
