// Package command defines the brainscan-cli commands.
//
// Every command declares the view it renders and passes the gate before
// talking to the backend. All commands share one Runtime, built in the
// application's Before hook and closed when the outermost invocation ends,
// so the interactive shell can re-enter the same App for each line.
package command
