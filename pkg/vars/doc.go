// Package vars loads variable options and enumerates their combinations.
//
// Variable options are read from a YAML mapping of variable name to a
// sequence of scalar values:
//
//	lr: [0.001, 0.0001]
//	batch_size:
//	  - 32
//	  - 64
//
// Key order is preserved, and combinations are produced in standard
// Cartesian product order with the last variable varying fastest.
package vars
