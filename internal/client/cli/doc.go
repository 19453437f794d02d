// Package cli provides the interactive dailyquote command-line client.
//
// It wires configuration, the local SQLite cache, the gRPC client, the
// services and screen controllers, and an interactive REPL on top of them.
// Typical flow: restore the previous session, start the connectivity and
// preferences watchers, load the default category and execute user
// commands.
//
// Key features:
//   - Browse quotes by category, search them, draw random ones
//   - Like / unlike; favorites are kept on the device and synced to the account
//   - Collections of saved quotes (signed in only)
//   - Sign up / login / logout, password recovery links, profile and avatar
//   - Preferences (theme, accent, font scale, daily notification)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
