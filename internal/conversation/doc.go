// Package conversation defines the turn data model for a tool-using chat.
//
// Invariants:
//   - History is append-only; turns are never mutated or reordered.
//   - Every assistant tool-call turn is eventually followed by exactly one
//     tool-result turn carrying the same call ID before the conversation is
//     considered resolved for that call.
package conversation
