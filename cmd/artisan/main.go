// Command artisan drives the ArtisanHub API from a terminal: it lists styles,
// generates images, and mints or transfers with a local Solana keypair.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/artisanhub/artisanhub-api/internal/client"
	"github.com/spf13/cobra"
)

var (
	apiURL      string
	rpcURL      string
	keypairPath string
	timeout     time.Duration
	assumeYes   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "artisan",
	Short:         "Generate AI artwork and mint it on Solana",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("ARTISANHUB_API_URL", "http://localhost:8080"), "ArtisanHub API base URL")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", envOr("SOLANA_RPC_URL", "https://api.devnet.solana.com"), "Solana RPC endpoint used for blockhashes")
	rootCmd.PersistentFlags().StringVar(&keypairPath, "keypair", defaultKeypairPath(), "solana-keygen keypair file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Approve wallet prompts without asking")

	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(transferCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func apiClient() *client.Client {
	return client.New(apiURL, timeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}
