package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"project_navigator/config"
	"project_navigator/generator"
	"project_navigator/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "projectnav",
	Short: "Generate project ideas to master a topic",
	Long: `Project Navigator asks a chat-completion model for project ideas on a topic,
at a chosen difficulty and completion time, and exports the reply as text or PDF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default config/config.json if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, configures logging and builds the generator agent.
func setup() (*config.Config, *generator.Agent, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log := logger.Setup(level, cfg.Log.Format)

	llm, err := generator.NewLLM(cfg.LLM.Settings())
	if err != nil {
		return nil, nil, nil, err
	}
	agent, err := generator.NewAgent(llm, log)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Debug("configuration loaded",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"api_key_present", cfg.LLM.APIKey != "")
	return cfg, agent, log, nil
}
