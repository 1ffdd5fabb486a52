package core

// Agent defines the interface all agents in the studio must implement.
//
// Agents are the primary processing units: they receive input through a
// RunContext, process it, and emit events to communicate results and state
// changes back to the runner. The sub-agent management methods support
// hierarchical multi-agent systems such as the studio's router.
//
// Implementations must respect context cancellation, emit events through the
// provided RunContext and manage their lifecycle through Start/Stop.
type Agent interface {
	Name() string
	Description() string
	Start(runCtx *RunContext) error
	Stop(runCtx *RunContext) error
	Run(runCtx *RunContext) error
	SetSubAgents(children ...Agent) error
	SubAgents() []Agent
	Parent() Agent
	FindAgent(name string) Agent
}

// AgentInfo carries identifying details about an agent used in contexts and
// events. Name is the external identifier; Type categorizes the
// implementation (e.g. "router", "worker").
type AgentInfo struct{ Name, Type string }
