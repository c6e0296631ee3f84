// Package cmd implements the defconf subcommands.
//
// The yaml, json and fmt commands translate one or more sources and write
// the result to standard output or a file. The init command writes the
// current flag values to the configuration file, and repl starts an
// interactive session.
package cmd

var (
	// CacheIdentifier is the kong variable holding the path to the runtime
	// cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path to the
	// configuration file.
	ConfigIdentifier = "config"
)
