// Package internal contains the core infrastructure for the folio runtime.
// This includes logging, button input processing and power management.
// Types and functions in this package are not part of the public API.
package internal
