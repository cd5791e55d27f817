// Package cli implements the flightdata command line tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yomorun/flightdata/core/yerr"
	"github.com/yomorun/flightdata/core/ylog"
	"github.com/yomorun/flightdata/pkg/file"
	"github.com/yomorun/flightdata/pkg/log"
)

// NewCmdRoot creates the flightdata root command with every sub command.
func NewCmdRoot() *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	var cmd = &cobra.Command{
		Use:           "flightdata",
		Short:         "Decode and convert rocket flight recordings",
		Version:       GetVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				ylog.SetDefault(ylog.NewFromConfig(ylog.Config{
					Level:  "debug",
					Format: "text",
				}))
			}
			if jsonOutput {
				log.EnableJSONFormat()
			}
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
	cmd.Flags().BoolP("version", "V", false, "version for flightdata")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print status events as JSON")

	cmd.AddCommand(
		NewCmdCheck(),
		NewCmdConvert(),
		NewCmdDecode(),
		NewCmdGen(),
		NewCmdReport(),
		NewCmdSchema(),
	)

	return cmd
}

// Execute runs the root command with the process arguments and exits with
// the status of the run.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	cmd := NewCmdRoot()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)

	if err := cmd.Execute(); err != nil {
		log.FailureStatusEvent(out, "%v", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps err to the process exit status: 2 for an invalid layout or
// usage, 1 for everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var usage *usageError
	if errors.As(err, &usage) || yerr.Is(err, yerr.ErrorCodeConfig) {
		return 2
	}
	return 1
}

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, a ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

func init() {
	cobra.OnInitialize(initDotEnv)
}

func initDotEnv() {
	if file.Exists(".env") {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
			os.Exit(1)
		}
	}
}
