package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	tend "github.com/tendhq/tend"
	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/logging"
	"github.com/tendhq/tend/internal/presentation/tui"
	"github.com/tendhq/tend/pkg/adapters/httpapi"
	"github.com/tendhq/tend/pkg/adapters/memapi"
	"github.com/tendhq/tend/pkg/adapters/rediscache"
	"github.com/tendhq/tend/pkg/notify"
	"github.com/tendhq/tend/pkg/ports"
	"github.com/tendhq/tend/pkg/session"
)

var rootCmd = &cobra.Command{
	Use:   "tend",
	Short: "Tend is a habit and routine tracker with an AI coach",
	Long:  `Tend tracks your fixed morning and evening routines, and its coach can suggest habits or answer questions about them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath(), "Path to the config file")
	rootCmd.PersistentFlags().Bool("offline", false, "Use the built-in in-memory backend (no network)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadConfig reads the config file named by the --config flag.
func loadConfig(cmd *cobra.Command) config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelWarn)
}

// newClient wires the full client for a command invocation: backend,
// session gate, notifier, animator and optional redis warm start.
// Extra options are applied last and may override the defaults.
func newClient(cmd *cobra.Command, extra ...tend.Option) *tend.Client {
	cfg := loadConfig(cmd)
	logger := newLogger(cmd)

	var api ports.RemoteAPI
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		api = memapi.New()
	} else {
		gate := session.NewGate("")
		if !gate.Authenticated() {
			fmt.Println(session.ErrNotAuthenticated)
			os.Exit(1)
		}
		if cfg.Remote.URL == "" {
			fmt.Println("No remote URL configured (set remote.url or TEND_REMOTE_URL)")
			os.Exit(1)
		}
		api = httpapi.New(cfg.Remote.URL, cfg.Remote.AnonKey, httpapi.WithLogger(logger))
	}

	opts := []tend.Option{
		tend.WithLogger(logger),
		tend.WithNotifier(notify.Multi(
			notify.NewTerminal(os.Stderr),
			notify.Slog(logger),
		)),
		tend.WithAnimator(tui.NewTypewriter(os.Stdout, cfg.Coach.RevealInterval)),
		tend.WithTimeouts(cfg.Timeouts.Request, cfg.Timeouts.AI),
	}
	if cfg.Redis.Addr != "" {
		opts = append(opts, tend.WithSnapshotCache(
			rediscache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
		))
	}
	opts = append(opts, extra...)

	client := tend.New(api, opts...)
	client.Store.WarmStart(cmd.Context())
	return client
}
