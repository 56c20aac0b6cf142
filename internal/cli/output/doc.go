// Package output renders command results and user notices.
//
// Results go to stdout through a Formatter (table, json or yaml); notices,
// spinners and progress bars go to stderr so piped output stays clean.
package output
