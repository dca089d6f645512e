// Package colloquy provides an embeddable multi-agent conversation engine.
//
// A conversation pairs a roster of agents with a speaker-selection policy
// (round robin, debate, task routing) and drives turns until the policy
// signals completion.  Sensitive operations run behind an approval gate with
// an audit trail.  The engine is composed of pluggable service layers:
//
//   - selector – speaker-selection policies
//   - roster   – agent registry
//   - gate     – approval-gated operation execution
//   - audit    – decision log and aggregate reporting
//
// End-users typically interact with the engine via the high-level Service
// façade exposed by the root package:
//
//	srv := colloquy.New(colloquy.WithAgents(agents...))
//	rt := srv.Runtime()
//	sel, _ := selector.NewRoundRobin([]string{"researcher", "analyst", "writer"}, 9)
//	conv, _ := rt.RunConversation(ctx, "plan the launch", sel)
//
// For more details see the README and individual sub-packages.
package colloquy
