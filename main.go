// Command highrl trains curriculum planners for LiDAR robot
// navigation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/samuelfneumann/highrl/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configEnv names the environment variable holding the default
// configuration file
const configEnv = "HIGHRL_CONFIG"

var rootFlags struct {
	config  string
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "highrl",
	Short: "Curriculum learning for LiDAR robot navigation",
	Long: "highrl trains a planner that proposes navigation scenarios of " +
		"increasing\ndifficulty to a trainee robot agent.",
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.config, "config", "", "YAML configuration file "+
		"(default $"+configEnv+")")
	f.BoolVarP(&rootFlags.verbose, "verbose", "v", false,
		"development logging at debug level")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(estimateCmd)
}

func main() {
	// A missing .env file is not an error
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig returns the configuration named by --config or
// $HIGHRL_CONFIG, or the default configuration if neither is set
func loadConfig() (config.Config, error) {
	path := rootFlags.config
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger() (*zap.Logger, error) {
	if rootFlags.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
