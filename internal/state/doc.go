// Package state persists per-tree session state between CLI invocations.
//
// A session records which folders are expanded and which paths are selected
// for one tree root. The tree model itself never reads or writes it; the CLI
// loads a session, passes its index and selection to the engine and saves
// the engine's result.
//
// Key concepts:
//   - SessionState: expansion index and selection for one root
//   - SessionID: stable identifier derived from the root path
//   - StateStore: interface for persisting and loading sessions
package state
