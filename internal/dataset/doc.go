// Package dataset provides the in-memory tabular representation shared by
// every pipeline stage.
//
// A Frame is an ordered set of named columns plus rows of typed cells. Cells
// carry an explicit null state so that "missing" survives type coercion: a
// value that fails to parse as a date or number becomes a null cell, never an
// error. Frames are mutated in place by the transform stage and are not safe
// for concurrent use; the pipeline is strictly sequential.
package dataset
