// Package cmd implements the dotini subcommands: load, get, browse and init.
//
// Each command is a kong command struct whose Run method receives the
// process [context.Context] and the output [io.Writer] bound by package cli.
// The kong context itself is carried in the context with [WithContext].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. It is also the name of the section holding flag
	// defaults in that file.
	ConfigIdentifier = "config"
)
