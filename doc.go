// Package agents is the core of a desktop tray assistant backed by a
// locally running model server. A query is routed to one of several
// configured agents, the agent's model may emit tool-call directives,
// permitted tools run through a registry, and their results are fed back
// until the model produces a final answer.
//
// The Assistant facade assembles the pieces:
//
//	a, err := agents.New("config.toml")
//	turn, err := a.Ask(ctx, "list files in the workspace")
//
// Execution is single-flight: one query runs to completion before the
// next is accepted.
package agents
