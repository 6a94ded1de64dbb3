// Package batch generates one job document per variable combination and
// optionally submits each one.
//
// Combinations are processed one at a time. A failure to write or submit a
// single document is logged and counted in the [Summary]; it never stops
// the remaining combinations.
package batch
