// Package expr evaluates CEL (Common Expression Language) expressions
// against variable combinations.
//
// Expressions have access to:
//   - `vars` (map<string, dyn>): typed option values (int, double, bool,
//     string or null)
//   - `text` (map<string, string>): option values as written in the
//     options file
//
// The CEL math, strings and lists extensions are enabled.
package expr
