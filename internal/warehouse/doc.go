// Package warehouse owns the embedded star-schema store.
//
// BuildSemanticLayer derives the four dimension tables and the fact table
// from the integrated dataset in a single pass: dimensions are ordered sets
// of natural attribute tuples with 1-based surrogate keys in first-seen
// order, and fact rows resolve their surrogate keys through the same maps,
// so referential completeness holds by construction. Each table write fully
// replaces the previous table; there is no atomicity across tables.
package warehouse
