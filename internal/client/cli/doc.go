// Package cli provides the interactive filekeeper command-line client.
//
// It wires configuration, the client state database, the record stores, the
// remote client and the services, and runs a line REPL. A background watcher
// pings the remote store, keeps the session's online flag current and
// replays queued requests when the remote comes back.
//
// Commands:
//   - register / login / logout / whoami
//   - encrypt <path> / decrypt <path> / fp <path>
//   - ls [-r]  (local records, or remote with -r)
//   - sync     (replay queued remote requests)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
