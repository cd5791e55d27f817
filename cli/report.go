package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/pkg/file"
	"github.com/yomorun/flightdata/pkg/id"
	"github.com/yomorun/flightdata/pkg/log"
	"github.com/yomorun/flightdata/pkg/report"
)

// ReportOptions are the options for report command.
type ReportOptions struct {
	// Config is the rocket layout file, the built-in layout if empty.
	Config string
	// RunID is printed in the report, a new one is generated if empty.
	RunID string
}

// NewCmdReport creates a new command report.
func NewCmdReport() *cobra.Command {
	var opts ReportOptions

	var cmd = &cobra.Command{
		Use:   "report [flags] <data> <output.tex>",
		Short: "Write a LaTeX report of a flight recording",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := bindViper(cmd)
			loadViperValue(cmd, v, &opts.Config, "config")
			loadViperValue(cmd, v, &opts.RunID, "run-id")

			layout, err := loadLayout(opts.Config)
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			parser := packet.NewParser(bufio.NewReader(in), layout).WithLogger(cmdLogger(cmd))
			r, err := report.New(layout, parser)
			if err != nil {
				return err
			}
			r.RunID = opts.RunID
			if r.RunID == "" {
				r.RunID = id.New()
			}

			err = file.WriteFile(args[1], func(out io.Writer) error {
				w := bufio.NewWriter(out)
				if _, err := r.WriteTo(w); err != nil {
					return err
				}
				return w.Flush()
			})
			if err != nil {
				return err
			}

			log.SuccessStatusEvent(cmd.OutOrStdout(), "Run %s reported %d rows to %s", r.RunID, r.Rows(), args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "rocket layout file (.yaml|.yml|.json)")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run id printed in the report")

	return cmd
}
