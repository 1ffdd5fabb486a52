// Package runner coordinates end-to-end agent runs.
//
// A Runner binds a root agent to the session, artifact and memory stores,
// starts asynchronous runs, streams events back to the caller and persists
// every non-partial event before letting the producing flow continue. It also
// intercepts inline file uploads in the user content, storing them as
// artifacts so tools can reference them by ID instead of re-sending bytes
// through the model.
package runner
