// Package cli provides the interactive artbook terminal client.
//
// It wires configuration, the local token database, the CMS client with its
// interceptor chain, the state store and the screens (posts, artists,
// login), then runs a REPL. Each command is one navigation or one user
// action; queued messages are printed after every command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
