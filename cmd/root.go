// Package cmd is the estimator command line: the HTTP server plus the
// seeding and quoting tools that share its configuration.
package cmd

import (
	"fmt"
	"os"

	"estimator-backend/config"
	"estimator-backend/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "estimator",
	Short: "Project cost calculator backend",
	Long: `estimator serves the project cost calculator API: step filtering, pricing,
quote submissions and the admin pricing editor. Without a subcommand it runs the server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"port":      "port",
	"store":     "store.driver",
	"log-level": "log.level",
}

func init() {
	cobra.OnInitialize(loadDotEnv)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(hashPasswordCmd())
}

func loadDotEnv() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	return nil
}

// loadConfig resolves the configuration for cmd and installs the global
// logger it describes.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return config.Config{}, err
	}

	if err := logging.Initialize(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Env == "development",
	}); err != nil {
		return config.Config{}, fmt.Errorf("init logging: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
