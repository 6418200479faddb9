package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"

	"xdccget/internal/config"
	"xdccget/internal/protocol"
	"xdccget/internal/session"
	"xdccget/internal/ui"
)

// ErrTransferFailed marks outcomes that should exit non-zero after the
// summary has already been printed.
var ErrTransferFailed = errors.New("transfer did not complete")

// ClientOptions configures the client application behavior
type ClientOptions struct {
	Bot        string // Required: bot name to request the pack from
	Pack       string // Required: pack number to download
	NoProgress bool   // Don't ask the server for progress updates
}

// ClientApp wires the transport, the transfer session and the progress UI
// for a single download.
type ClientApp struct {
	config     *config.Config
	progressUI *ui.ProgressUI
}

// NewClientApp creates a new client application
func NewClientApp(cfg *config.Config, progressUI *ui.ProgressUI) *ClientApp {
	return &ClientApp{
		config:     cfg,
		progressUI: progressUI,
	}
}

// Run connects to the server, runs the transfer session to its terminal
// outcome and prints the final summary. It returns nil exactly when the
// outcome maps to exit code 0.
func (a *ClientApp) Run(ctx context.Context, opts *ClientOptions) error {
	if opts.Bot == "" {
		return fmt.Errorf("bot name is required")
	}
	if opts.Pack == "" {
		return fmt.Errorf("pack number is required")
	}

	addr := net.JoinHostPort(a.config.Server.Host, strconv.Itoa(a.config.Server.Port))
	log.Printf("Connecting to %s...", addr)

	conn, err := net.DialTimeout("tcp", addr, a.config.Server.DialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("Connected, requesting pack %s from %s", opts.Pack, opts.Bot)

	controller := session.NewController(a.config, conn)

	// Render progress in the background while the read loop runs.
	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		a.progressUI.Watch(ctx, controller.Progress())
	}()

	result := controller.Run(ctx, protocol.Request{
		BotName:      opts.Bot,
		PackNumber:   opts.Pack,
		SendProgress: !opts.NoProgress,
	})
	<-uiDone

	threshold := a.config.Transfer.AmbiguousSuccessPercent
	fmt.Println(result.Summary(threshold))

	if !result.Succeeded(threshold) {
		return ErrTransferFailed
	}
	return nil
}
