// Package cli implements the dashgen command-line interface. Configuration
// flows through three sources with clear precedence: command-line flags,
// DASHGEN_* environment variables, then a .dashgen.yml config file.
package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dashgen",
	Short: "Generate Splunk Dashboard Studio documents from templates",
	Long: `dashgen renders parameterized dashboard templates into Dashboard
Studio JSON documents, validates the result, and writes the artifact with a
companion metadata record describing how it was produced.

Quick Start:
  dashgen list                          List available templates
  dashgen generate security-overview    Generate a dashboard
  dashgen validate security-overview    Dry-render and validate a template`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .dashgen.yml)")
	rootCmd.PersistentFlags().StringP("templates", "t", "templates", "template directory")
	rootCmd.PersistentFlags().StringP("environment", "e", "production", "deployment environment injected as ENV_NAME")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "never prompt; fail when required values are missing")
	viper.BindPFlag("templates", rootCmd.PersistentFlags().Lookup("templates"))
	viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment"))
	viper.BindPFlag("non-interactive", rootCmd.PersistentFlags().Lookup("non-interactive"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dashgen")
	}

	viper.SetEnvPrefix("DASHGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Missing config files degrade to flag and env defaults.
	viper.ReadInConfig()
}

// isInteractive reports whether prompting makes sense: a TTY on stdin and no
// explicit opt-out.
func isInteractive() bool {
	if viper.GetBool("non-interactive") {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
