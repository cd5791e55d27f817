package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/yomorun/flightdata/pkg/log"
)

// CheckOptions are the options for check command.
type CheckOptions struct {
	// Config is the rocket layout file, the built-in layout if empty.
	Config string
}

// NewCmdCheck creates a new command check.
func NewCmdCheck() *cobra.Command {
	var opts CheckOptions

	var cmd = &cobra.Command{
		Use:   "check",
		Short: "Check a rocket layout file",
		Long:  "Check a rocket layout file and print the sensors it describes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := bindViper(cmd)
			loadViperValue(cmd, v, &opts.Config, "config")

			layout, err := loadLayout(opts.Config)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			log.InfoStatusEvent(out, "Rocket: %s", layout.DisplayLabel())
			if layout.Description != "" {
				log.InfoStatusEvent(out, "Description: %s", layout.Description)
			}
			for i := range layout.Sensors {
				s := &layout.Sensors[i]
				columns := make([]string, len(s.Values))
				for j, v := range s.Values {
					columns[j] = s.ColumnName(v)
				}
				log.InfoStatusEvent(out, "Sensor %d %s: %d bytes %s, columns %s",
					s.ID, s.Name, s.PayloadSize(), layout.ByteOrder(s), strings.Join(columns, ","))
			}

			source := opts.Config
			if source == "" {
				source = "built-in"
			}
			log.SuccessStatusEvent(out, "Layout %s is valid", source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "rocket layout file (.yaml|.yml|.json)")

	return cmd
}
