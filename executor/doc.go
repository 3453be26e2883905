// Package executor implements the turn-based conversation orchestrator.
//
// An Executor owns one scenario run: the conversation State, the roster of
// agents, the per-turn bookkeeping and the lifecycle event stream. It drives
// the conversation one agent call at a time.
//
// # Turn Protocol
//
// Every turn visits the roles in a fixed order: user, agent, judge. Within a
// turn each registered agent is called at most once, picked first-unconsumed
// in roster order; a role with no remaining agent is skipped. When every role
// has been visited the turn counter advances and all agents become available
// again. The executor refuses to open a turn at or beyond MaxTurns and ends
// the run with a failing verdict instead.
//
// # State Machine
//
//	AwaitingRole(user|agent|judge) --step--> AwaitingRole(next) | TurnBoundary
//	TurnBoundary --step--> AwaitingRole(user) | Terminated(max turns)
//	any --verdict--> Terminated
//
// # Scripts
//
// Runs are driven by a script.Script. The Executor implements
// script.Controller, so script steps can append literal messages, force a
// role to act, proceed autonomously or end the run explicitly. Without a
// script the run proceeds until a verdict or the turn limit.
//
// # Events
//
// Each run publishes RunStarted, a MessageSnapshot after every appended
// message and a final RunFinished to its event bus. Delivery happens on the
// bus worker and never affects the verdict; callers drain the bus before
// exiting (see Bus).
//
// # Errors
//
// Agent failures abort the run: RunFinished is published with ERROR status
// and the error is returned wrapped in a *core.AgentError. Agents are never
// retried by the executor.
package executor
