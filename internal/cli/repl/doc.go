// Package repl provides the interactive shell of brainscan-cli.
//
// Lines are split with shell-like quoting and handed to an Executor, which
// the command package backs with the same urfave/cli application used in
// one-shot mode. The shell owns background tasks (status monitor, config
// watcher) and stops them when it exits.
package repl
