package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "List the commands extracted from a documentation file",
	Long:  `Extracts and normalizes the command blocks without validating or executing them.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		p, err := buildPipeline(cfg, out)
		if err != nil {
			return err
		}

		set, err := p.ExtractCommands(args[0])
		if err != nil {
			return err
		}
		for _, c := range set.Commands() {
			fmt.Fprintf(out, "%3d. %s\n", c.Index+1, c.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
