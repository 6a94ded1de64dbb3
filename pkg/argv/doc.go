// Package argv splits command lines into argument lists and joins them back.
//
// It is used to turn a shell command (as typed in a terminal, with line
// continuations) into the args list of a container spec, and the reverse.
package argv
