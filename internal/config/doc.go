// Package config defines the pipeline configuration: directory layout,
// the ordered period list, logging settings, and the canonical column
// vocabulary of the export-declaration dataset.
//
// Configuration is an explicit structure passed into each stage rather than
// package-level globals. Values are resolved from built-in defaults, an
// optional YAML file, and EXPORTDW_* environment variables, and validated
// before the pipeline starts.
package config
