// Package validation provides pure validation functions for API handlers.
//
// This package contains the functional core logic for validating API request
// parameters. All functions are pure (no I/O, no side effects).
//
// # Functions
//
//   - ValidateFactionParam: Check a faction query parameter
//   - CanResolveBatch: Check a batch request against the configured limit
//
// # Usage
//
// The API handlers use these functions to validate requests before processing:
//
//	if field, msg := validation.ValidateFactionParam(q.Get("faction")); field != "" {
//	    // Return 400 Bad Request with msg
//	}
package validation
