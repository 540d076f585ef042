package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"docverify/internal/assemble"
	"docverify/internal/config"
	"docverify/internal/extract"
	"docverify/internal/normalize"
	"docverify/internal/pipeline"
	"docverify/internal/sandbox"
	"docverify/internal/validate"
)

var (
	cfgFile string
	verbose bool
	log     = logrus.New()
)

// rootCmd is the base command for docverify.
var rootCmd = &cobra.Command{
	Use:   "docverify",
	Short: "Verify that installation documentation actually installs",
	Long: `docverify extracts the shell commands a reader would copy-paste from
installation documentation (HTML or Markdown), validates them, assembles
them into one instrumented script, and runs that script inside a
disposable container. On failure the container and the script are
preserved for inspection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "docverify.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads and validates the configuration, applying the logging
// level unless --verbose already raised it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if !verbose && cfg.Logging.Level != "" {
		if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
			log.SetLevel(level)
		}
	}
	return cfg, nil
}

// buildPipeline wires all stages from the configuration.
func buildPipeline(cfg *config.Config, out io.Writer) (*pipeline.Pipeline, error) {
	htmlExtractor, err := extract.NewHTMLExtractor(cfg.Extraction.BlockClass, cfg.Extraction.CopyMarker)
	if err != nil {
		return nil, err
	}
	registry := extract.NewRegistry()
	registry.Register(htmlExtractor)
	registry.Register(extract.NewMarkdownExtractor(cfg.Extraction.FenceLanguages))

	normalizer, err := normalize.New(&cfg.Commands)
	if err != nil {
		return nil, err
	}
	validator, err := validate.New(&cfg.Validation)
	if err != nil {
		return nil, err
	}
	assembler := assemble.New(&cfg.Script)

	runtime := &sandbox.DockerCLI{
		Shell:  cfg.Script.Shell,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	runner := sandbox.NewRunner(runtime, &cfg.Sandbox, log)

	return pipeline.New(registry, normalizer, validator, assembler, runner, log, out), nil
}
