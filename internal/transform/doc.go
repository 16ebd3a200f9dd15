// Package transform builds the integrated core layer from the per-period
// staging frames.
//
// Integration concatenates the periods in configured order, reconciles the
// serial-number column to its canonical spelling, validates the composite
// natural key, parses declaration dates and coerces the measure columns
// (parse-or-null, never an error), deduplicates on (form, serial) keeping the
// first occurrence, and fills remaining nulls (measures to zero, destination
// country to "Unknown"). The result is persisted as a parquet snapshot that
// fully replaces the previous one.
//
// Fatal-for-run conditions (all periods empty, missing key columns) are
// logged and reported as an empty frame so downstream stages no-op.
package transform
