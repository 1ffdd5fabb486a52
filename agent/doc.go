// Package agent provides the agent implementations that drive conversations.
//
// BaseAgent supplies shared lifecycle and hierarchy management. ModelAgent
// layers a language model, tool registry, and flow-based execution on top,
// including transfer of control between agents in a hierarchy.
package agent
