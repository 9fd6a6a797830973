package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmerrifield20/NexusTrustSafety/pkg/client"
)

// version is overridden via -ldflags "-X main.version=...".
var version = "dev"

var (
	apiURL       string
	cfgFile      string
	outputFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "modctl",
	Short: "Moderation operator CLI",
	Long: `modctl is the command-line interface for the moderation API.

It lets moderators work the report queue, dispatch actions, manage bans and
warnings, and inspect moderation statistics and the trust ledger.

Configuration is read from ~/.modctl/config.yaml:

  api_url: http://localhost:8080
  token_file: ~/.modctl/token
  identity_secret: ...   # only needed for 'modctl token'`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(configDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("MODCTL")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		viper.SetDefault("token_file", filepath.Join(configDir(), "token"))
		if apiURL == "" {
			apiURL = viper.GetString("api_url")
		}
		if apiURL == "" {
			apiURL = "http://localhost:8080"
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.modctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "moderation API base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or json")

	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(banCmd)
	rootCmd.AddCommand(unbanCmd)
	rootCmd.AddCommand(warnCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

func configDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".modctl")
}

// newClient builds an API client authenticated with the configured token.
// MODCTL_TOKEN takes precedence over the token file.
func newClient() (*client.Client, error) {
	if tok := viper.GetString("token"); tok != "" {
		return client.New(apiURL, client.WithBearerToken(tok))
	}
	path := viper.GetString("token_file")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no token: set MODCTL_TOKEN or run 'modctl token --save' (looked in %s)", path)
	}
	return client.New(apiURL, client.WithTokenFile(path))
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func jsonOutput() bool { return outputFormat == "json" }

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the modctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("modctl %s\n", version)
	},
}
