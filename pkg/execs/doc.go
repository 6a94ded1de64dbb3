// Package execs runs external commands described by configuration.
//
// A [Command] holds the program, its base arguments and the environment it
// is allowed to see. An [Executor] appends per-call arguments (such as the
// path of a generated job file) and runs it, capturing both output streams
// and the exit code.
package execs
