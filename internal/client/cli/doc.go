// Package cli implements the interactive terminal client: a small REPL over
// the backend API with a durable local session. Commands are gated on login
// state; when the server rejects the stored token the session watcher prints
// a notice and drops the user back to the logged-out menu.
package cli
