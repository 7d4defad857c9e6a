// Package engine contains the simulation loop and session state.
//
// ARCHITECTURAL RULE: the engine is the only writer of the Board. Editor
// surfaces (websocket clients, the terminal UI, the HTTP API) call the
// command methods here; each command mutates the board under the session
// lock and appends a fact event to the journal. The ticker drives automatic
// generation advance through the same journal.
package engine
