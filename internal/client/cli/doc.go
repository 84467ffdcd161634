// Package cli provides the interactive photofeed command-line client.
//
// It wires configuration and the gRPC client into a small REPL: register,
// log in, follow people, post images, read the feed, like, comment and
// check the notification inbox. Commands take their arguments on the same
// line, e.g. "like 3f0c...", and prompt for anything longer or secret.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
