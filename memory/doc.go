// Package memory provides MemoryStore implementations for long-term
// conversational recall beyond the session event history.
package memory
