// Package roster resolves roster records against a card catalog.
//
// A domain.RosterRecord names its units and upgrades as plain strings. Resolve
// looks every name up in a Catalog and returns a Roster whose units carry the
// full cards and whose point total is computed from them.
//
// Resolution is lenient. A unit whose card cannot be found is skipped, and an
// upgrade whose card cannot be found is dropped from its unit; neither aborts
// the rest of the record, and Resolve never returns an error. Callers that need
// to tell a misspelt name from an intentional omission use
// ResolveWithDiagnostics, which reports every name that failed to resolve.
//
// Loadout upgrades are resolved but never counted in Roster.Points.
//
// This is part of the Functional Core - all functions are pure with no I/O,
// and Resolve is safe to call concurrently with a catalog whose lookups are.
package roster
