// Package main provides the entry point for brainscan-cli.
//
// brainscan-cli is the terminal client of the Brain Scan AI prediction
// service. It runs a single command when given arguments and starts the
// interactive shell otherwise.
package main
