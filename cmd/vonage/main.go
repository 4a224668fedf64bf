package main

import (
	"fmt"
	"os"

	"github.com/fivetwenty-io/vonage-client/cmd/vonage/commands"
	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "vonage",
	Short: "Vonage API CLI",
	Long: `A command-line interface for the Vonage Voice and Conversation APIs.

Requests are authenticated with JWTs signed by your application's private key.
The CLI can also mint Client SDK user tokens and run a webhook receiver.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.vonage/config.yml)")
	rootCmd.PersistentFlags().String("app-id", "", "Vonage application id")
	rootCmd.PersistentFlags().String("private-key", "", "path to the application private key")
	rootCmd.PersistentFlags().String("region", "", "API region (us, eu, ap)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL, overrides --region")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output, logs requests and responses")

	bindFlag("config", "config")
	bindFlag("application_id", "app-id")
	bindFlag("private_key_path", "private-key")
	bindFlag("region", "region")
	bindFlag("base_url", "base-url")
	bindFlag("output", "output")
	bindFlag("verbose", "verbose")

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewCallsCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
}

func bindFlag(key, flag string) {
	err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flag %s: %v\n", flag, err)
		os.Exit(1)
	}
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := commands.ConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.vonage/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match, e.g. VONAGE_APPLICATION_ID
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
