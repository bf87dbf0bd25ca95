// Package memory persists the conversation transcript between CLI sessions.
//
// Persistence model:
//   - All four turn kinds are stored, so reloaded sessions keep tool calls
//     paired with their results.
//   - The file is a plain JSON array; no migration or locking.
package memory
