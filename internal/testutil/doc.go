// Package testutil provides fluent builders for events and sessions used
// across the test suites. It is internal and carries no stability guarantees.
package testutil
