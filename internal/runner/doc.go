// Package runner drives the multi-turn tool-calling loop against a
// completion client and dispatches tool calls.
//
// Invariants:
//   - a tool-call turn and the corresponding tool-result turn stay adjacent
//     in the threaded conversation, correlated by call ID.
//   - turns are strictly sequential; no two tool calls for one conversation
//     are ever in flight at once.
//
// Flow:
//
//	user(text) -> assistant(tool_call) -> user(tool_result) -> assistant(text)
package runner
