package cli

import (
	"github.com/spf13/cobra"
	"github.com/yomorun/flightdata/pkg/config"
	"github.com/yomorun/flightdata/pkg/file"
	"github.com/yomorun/flightdata/pkg/log"
)

// NewCmdSchema creates a new command schema.
func NewCmdSchema() *cobra.Command {
	var output string

	var cmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of rocket layout files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(schema, '\n'))
				return err
			}
			if err := file.PutContents(output, schema); err != nil {
				return err
			}
			log.SuccessStatusEvent(cmd.OutOrStdout(), "Schema written to %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the schema to a file instead of stdout")

	return cmd
}
