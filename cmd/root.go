package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizai/internal/config"
	"github.com/abhisek/quizai/internal/telemetry"
)

// cfg is loaded once before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "quizai",
	Short: "AI-generated IT quizzes in the terminal",
	Long:  "QuizAI asks a language model for multiple-choice questions on a topic and quizzes you on them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite diagnostics database (overrides QUIZAI_DB)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration, applies flag overrides and starts logging.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.DB = p
	}
	cfg = c
	telemetry.Init(cfg.Log)
	return nil
}
