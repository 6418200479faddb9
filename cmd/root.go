package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"xdccget/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg     *config.Config
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xdccget",
	Short: "xdccget - XDCC download client",
	Long: `xdccget requests a pack from an XDCC download server and follows the
transfer to completion.

The server streams JSON status messages over the connection; xdccget decodes
them, shows download progress, and reports a final outcome that distinguishes
success, failure, timeout, and the server closing the stream mid-transfer.

Usage:
  xdccget fetch --bot BotName --pack 42`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize viper configuration
		initConfig()

		// Initialize configuration
		cfg = config.NewDefaultConfig()
		applyConfigOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.xdccget.yaml)")

	// Set up viper environment variable support
	viper.SetEnvPrefix("XDCCGET")
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Warning: Could not find home directory: %v", err)
			return
		}

		// Search config in home directory with name ".xdccget" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".xdccget")
	}

	// Read in environment variables that match
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// applyConfigOverrides layers config file and environment values over the
// defaults. Flag bindings are applied per-subcommand.
func applyConfigOverrides(cfg *config.Config) {
	if viper.IsSet("server.host") {
		cfg.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.port") {
		cfg.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("server.dial_timeout") {
		cfg.Server.DialTimeout = viper.GetDuration("server.dial_timeout")
	}
	if viper.IsSet("transfer.read_timeout") {
		cfg.Transfer.ReadTimeout = viper.GetDuration("transfer.read_timeout")
	}
	if viper.IsSet("transfer.ambiguous_success_percent") {
		cfg.Transfer.AmbiguousSuccessPercent = viper.GetInt("transfer.ambiguous_success_percent")
	}
	if viper.IsSet("transfer.max_frame_bytes") {
		cfg.Transfer.MaxFrameBytes = viper.GetInt("transfer.max_frame_bytes")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// createContext creates a context that cancels on interrupt signals
func createContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	return ctx
}
