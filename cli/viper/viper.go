// Package viper binds command flags to FLIGHTDATA_ environment variables.
package viper

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the CLI.
const EnvPrefix = "FLIGHTDATA"

// New returns a viper instance bound to flags.
func New(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	BindPFlags(v, flags)
	return v
}

// BindPFlags binds flags to v. A flag named vector-order is read from
// FLIGHTDATA_VECTOR_ORDER when it is not set on the command line.
func BindPFlags(v *viper.Viper, flags *pflag.FlagSet) {
	// set default values
	flags.VisitAll(func(f *pflag.Flag) {
		if f.DefValue != "" {
			v.SetDefault(f.Name, f.DefValue)
		}
	})
	// bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = v.BindPFlags(flags)
	v.AutomaticEnv()
}

// EnvName returns the environment variable read for the flag name.
func EnvName(name string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
