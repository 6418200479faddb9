package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"xdccget/internal/app"
	"xdccget/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type FetchFlags struct {
	Host       string
	Port       int
	Bot        string
	Pack       string
	NoProgress bool
}

var fetchFlags FetchFlags

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Request a pack from the server and follow the transfer",
	Long: `Request a pack from an XDCC download server. This will:

1. Connect to the server and send the download request
2. Follow the server's status messages as the transfer runs
3. Show a progress bar with throughput
4. Print a final outcome and exit 0 on success, 1 otherwise

Use --bot and --pack to identify the pack to download.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFetchFlags(&fetchFlags)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runClientApp(cmd, &fetchFlags); err != nil {
			if errors.Is(err, app.ErrTransferFailed) {
				// Summary already printed by the app.
				os.Exit(1)
			}
			log.Fatalf("Fetch failed: %v", err)
		}
	},
}

// validateFetchFlags validates the fetch command flags
func validateFetchFlags(flags *FetchFlags) error {
	if flags.Bot == "" {
		return fmt.Errorf("bot name is required")
	}
	if flags.Pack == "" {
		return fmt.Errorf("pack number is required")
	}
	if flags.Port <= 0 || flags.Port > 65535 {
		return fmt.Errorf("port %d is out of range", flags.Port)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	// Define flags with struct binding
	fetchCmd.Flags().StringVar(&fetchFlags.Host, "host", "localhost", "Server host")
	fetchCmd.Flags().IntVar(&fetchFlags.Port, "port", 8080, "Server port")
	fetchCmd.Flags().StringVar(&fetchFlags.Bot, "bot", "", "Bot name (required)")
	fetchCmd.Flags().StringVar(&fetchFlags.Pack, "pack", "", "Pack number (required)")
	fetchCmd.Flags().BoolVar(&fetchFlags.NoProgress, "no-progress", false, "Don't request progress updates")

	// Mark required flags
	fetchCmd.MarkFlagRequired("bot")
	fetchCmd.MarkFlagRequired("pack")

	// Bind flags to viper for environment variable support
	viper.BindPFlag("fetch.host", fetchCmd.Flags().Lookup("host"))
	viper.BindPFlag("fetch.port", fetchCmd.Flags().Lookup("port"))
	viper.BindPFlag("fetch.no_progress", fetchCmd.Flags().Lookup("no-progress"))
}

// runClientApp creates and runs the client application
func runClientApp(cmd *cobra.Command, flags *FetchFlags) error {
	ctx := createContext()

	// Connection flags override config file and environment values, but
	// only when set explicitly.
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flags.Host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flags.Port
	}

	opts := &app.ClientOptions{
		Bot:        flags.Bot,
		Pack:       flags.Pack,
		NoProgress: flags.NoProgress,
	}

	clientApp := app.NewClientApp(cfg, ui.NewProgressUI())
	return clientApp.Run(ctx, opts)
}
