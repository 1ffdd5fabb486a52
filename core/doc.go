// Package core contains the shared vocabulary of the agent framework: content
// parts, events, sessions, artifacts, the run and tool contexts handed to
// agents and tools, and the store interfaces persistence backends implement.
// Higher layers (agent, flow, runner, studio) build exclusively on these
// types so that backends stay swappable.
package core
