// Package session provides SessionStore implementations for persisting
// conversation state and event history.
package session
