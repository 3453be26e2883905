// Package core provides the foundational domain types and contracts used by
// the scenario framework. It defines:
//
//   - Messages (role tagged conversation entries, optionally carrying tool calls)
//   - Agents (role bound participants invoked once per turn slot)
//   - AgentInput / AgentReturn (the call contract between executor and agents)
//   - State (the per-run conversation log shared with agents and scripts)
//   - Result (the terminal verdict of a run)
//
// The package keeps orchestration (executor), event delivery (events) and
// concrete agent implementations (agent) out of scope, exposing small types
// so callers can plug in their own agent under test.
package core
