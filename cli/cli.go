package cli

import (
	"encoding/binary"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliviper "github.com/yomorun/flightdata/cli/viper"
	"github.com/yomorun/flightdata/core/yerr"
	"github.com/yomorun/flightdata/core/ylog"
	"github.com/yomorun/flightdata/pkg/config"
)

func bindViper(cmd *cobra.Command) *viper.Viper {
	return cliviper.New(cmd.Flags())
}

// loadViperValue fills p from the environment when the flag name was not set
// on the command line.
func loadViperValue(cmd *cobra.Command, v *viper.Viper, p *string, name string) {
	f := cmd.Flag(name)
	if f == nil || f.Changed {
		return
	}
	if val := v.GetString(name); val != "" {
		ylog.Debug("load flag from env", "flag", name, "env", cliviper.EnvName(name))
		*p = val
	}
}

// loadLayout parses the layout file at path. The built-in layout is returned
// when path is empty.
func loadLayout(path string) (*config.Rocket, error) {
	if path == "" {
		ylog.Debug("use built-in layout")
		return config.Default(), nil
	}
	layout, err := config.ParseConfigFile(path)
	if err != nil {
		return nil, yerr.New(yerr.ErrorCodeConfig, err)
	}
	ylog.Debug("load layout", "path", path, "rocket", layout.Name, "sensors", len(layout.Sensors))
	return layout, nil
}

// parseByteOrder parses "little" or "big" case-insensitively.
func parseByteOrder(s string) (binary.ByteOrder, error) {
	switch e := config.Endianness(strings.ToLower(strings.TrimSpace(s))); e {
	case config.LittleEndian, config.BigEndian:
		return e.ByteOrder(), nil
	default:
		return nil, usageErrorf("unknown byte order %q, it should be little or big", s)
	}
}

// closeFile closes f and keeps the first error.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); *err == nil && cerr != nil {
		*err = cerr
	}
}

func cmdLogger(cmd *cobra.Command) *slog.Logger {
	return ylog.Logger().With("command", cmd.Name())
}
