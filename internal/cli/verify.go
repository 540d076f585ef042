package cli

import (
	"github.com/spf13/cobra"

	"docverify/internal/pipeline"
)

var (
	imageFlag        string
	noExecFlag       bool
	validateOnlyFlag bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Run the full extraction-validation-execution pipeline",
	Long: `Extracts commands from the documentation file, validates them,
assembles the installation script, and executes it in a disposable
container built from the base image. Codename aliases (bullseye, focal,
jammy) are accepted for --image.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p, err := buildPipeline(cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		opts := pipeline.Options{
			Image:   cfg.Sandbox.ResolveImage(imageFlag),
			Execute: !noExecFlag && !validateOnlyFlag,
		}
		return p.Run(cmd.Context(), args[0], opts)
	},
}

func init() {
	verifyCmd.Flags().StringVar(&imageFlag, "image", "", "base image or codename alias (default from config)")
	verifyCmd.Flags().BoolVar(&noExecFlag, "no-exec", false, "skip the sandboxed execution stage")
	verifyCmd.Flags().BoolVar(&validateOnlyFlag, "validate-only", false, "extract and validate only")
	rootCmd.AddCommand(verifyCmd)
}
