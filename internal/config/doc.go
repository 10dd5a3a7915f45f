// Package config holds WebShepherd's configuration: scan resource bounds,
// report output options, and persistence settings. Configuration is built
// from defaults, an optional YAML file, and CLI flags, then passed through
// the application explicitly rather than read from global state.
package config
