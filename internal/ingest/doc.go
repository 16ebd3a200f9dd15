// Package ingest reads the per-period export-declaration spreadsheets into
// the staging layer.
//
// For each configured period it opens the source workbook, drops fully-empty
// rows, normalizes column labels to trimmed uppercase, writes a CSV snapshot
// under the staging directory for inspection, and returns the cleaned frame.
// A missing source file is a recoverable condition: the period contributes an
// empty frame and a warning, not a failed run. A present but unreadable file
// is fatal.
package ingest
