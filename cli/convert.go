package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yomorun/flightdata/pkg/convert"
	"github.com/yomorun/flightdata/pkg/export"
	"github.com/yomorun/flightdata/pkg/file"
	"github.com/yomorun/flightdata/pkg/log"
)

// ConvertOptions are the options for convert command.
type ConvertOptions struct {
	// Config is the rocket layout file, the built-in layout if empty.
	Config string
	// To is the export format.
	To string
	// Columns restricts the exported columns.
	Columns []string
}

// NewCmdConvert creates a new command convert.
func NewCmdConvert() *cobra.Command {
	var opts ConvertOptions

	var cmd = &cobra.Command{
		Use:   "convert [flags] <data> <output>",
		Short: "Convert a flight recording",
		Long:  "Convert a flight recording to " + strings.Join(export.Names(), ", ") + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := bindViper(cmd)
			loadViperValue(cmd, v, &opts.Config, "config")
			loadViperValue(cmd, v, &opts.To, "to")
			if !cmd.Flag("columns").Changed {
				opts.Columns = v.GetStringSlice("columns")
			}

			layout, err := loadLayout(opts.Config)
			if err != nil {
				return err
			}
			if _, err := export.Lookup(opts.To); err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			// the output only replaces args[1] once the whole recording converted
			var res convert.Result
			done := log.Spinner(cmd.OutOrStdout(), "Converting %s to %s...", args[0], opts.To)
			err = file.WriteFile(args[1], func(out io.Writer) error {
				w := bufio.NewWriter(out)
				var err error
				res, err = convert.Run(cmd.Context(), layout, bufio.NewReader(in), opts.To, w, convert.Options{
					Options: export.Options{Columns: opts.Columns},
					Logger:  cmdLogger(cmd),
				})
				if err != nil {
					return err
				}
				return w.Flush()
			})
			if err != nil {
				done(log.Failure)
				return err
			}
			done(log.Success)

			log.SuccessStatusEvent(cmd.OutOrStdout(), "Run %s converted %d packets (%d bytes) to %s",
				res.RunID, res.Packets, res.Bytes, args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "rocket layout file (.yaml|.yml|.json)")
	cmd.Flags().StringVarP(&opts.To, "to", "t", "csv", "output format ("+strings.Join(export.Names(), "|")+")")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to export, all if empty")

	return cmd
}
