// Package prompt asks the user yes/no questions on the terminal.
//
// [Confirm] runs a small bubbletea program and defaults to "no". Callers
// decide whether a terminal is attached before prompting.
package prompt
