package config

import (
	"github.com/spf13/pflag"
)

// ApplyFlags parses args (typically os.Args[1:]) and overrides any
// recognised `--fully-qualified-name=value` flag found, mirroring the
// command-line override convention, generalized from samoyed's fixed
// pflag.StringP/BoolP declarations to one dynamically-registered flag per
// recognised configuration key instead of a hand-enumerated flag set.
func ApplyFlags(c *Config, args []string) error {
	fs := pflag.NewFlagSet("engine", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	values := make(map[string]*string)
	for fqName := range fieldSetters(c) {
		values[fqName] = fs.String(fqName, "", "override "+fqName)
	}
	fs.StringP("config-file", "c", "", "configuration file path")

	if err := fs.Parse(args); err != nil {
		return err
	}

	for fqName, v := range values {
		if fs.Changed(fqName) {
			if err := c.Set(fqName, *v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ConfigFilePath extracts the -c/--config-file override, if any, without
// requiring the caller to know the rest of the recognised flag set. Returns
// fallback when the flag was not supplied.
func ConfigFilePath(args []string, fallback string) string {
	fs := pflag.NewFlagSet("engine-config-file", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	path := fs.StringP("config-file", "c", fallback, "configuration file path")
	_ = fs.Parse(args)
	return *path
}
