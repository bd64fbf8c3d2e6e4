// Package flagx holds small helpers around spf13/pflag shared by the server
// and CLI binaries.
package flagx

import (
	"io"

	"github.com/spf13/pflag"
)

// NewFlagSet returns a pflag.FlagSet that returns errors instead of exiting,
// stays silent, and skips flags it does not define. Several parsers can
// therefore read the same argument list, each picking out its own flags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	return fs
}

// ConfigFile extracts the config file path given via -c or --config.
// If neither is present, an empty string is returned.
func ConfigFile(args []string) string {
	var path string

	fs := NewFlagSet("config")
	fs.StringVarP(&path, "config", "c", "", "path to config file")
	_ = fs.Parse(args)

	return path
}
