// Package agent provides the collaborator agents that play the simulated
// user and the judge in a scenario, plus a function adapter for wrapping the
// agent under test.
//
// UserSimulator and Judge are driven by a model.Model and carry no state
// between calls beyond their configuration, so one instance can serve many
// concurrent runs:
//
//	llm := openai.NewModel()
//	agents := []core.Agent{
//	    agent.NewUserSimulator(llm),
//	    agent.NewFunc(core.AgentRoleAgent, myAgent),
//	    agent.NewJudge(llm, []string{"Agent offers a refund"}),
//	}
//
// System prompts are text/template templates rendered with the scenario
// description, criteria and any extra variables supplied via options.
package agent
