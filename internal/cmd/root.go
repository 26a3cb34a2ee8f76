// Package cmd wires configuration, logging and the HTTP adapter into the
// dsaview command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dsaview/internal/ai"
	"dsaview/internal/api"
	"dsaview/internal/config"
	"dsaview/internal/eventbus"
	"dsaview/internal/logging"
	"dsaview/internal/theme"
)

var cfgFile string

// appFs backs every file the commands read or write
var appFs afero.Fs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "dsaview",
	Short: "Browse and explain data-structure and algorithm solutions",
	Long: `dsaview searches a solution index, shows the source of a selected file and
asks an AI service to explain it.

Run without a subcommand to start the interactive interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ConfigError marks a configuration that could not be loaded or validated.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

func init() {
	rootCmd.RunE = runTUI

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.String("backend-url", "", "search/file backend base URL")
	pf.String("ai-url", "", "explanation service base URL")
	pf.String("log-file", "", "log file (default "+logging.DefaultPath()+")")
	pf.String("log-level", "", "log level: debug, info, warn, error")
}

// flagKeys maps global flags onto config keys
var flagKeys = map[string]string{
	"backend-url": "backend.url",
	"ai-url":      "ai.url",
	"log-file":    "logging.file",
	"log-level":   "logging.level",
}

// loadConfig reads the configuration with the global flags bound on top
func loadConfig() (*config.Config, error) {
	v := viper.New()
	pf := rootCmd.PersistentFlags()
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			return nil, &ConfigError{Err: err}
		}
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an Execute error onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return 2
	}
	return 1
}

// app bundles what every command needs
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	client    *api.Client
	explainer ai.Explainer
}

func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		FilePath: cfg.Logging.File,
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
	})
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to set up logging: %w", err)}
	}

	client := api.New(cfg.Backend.URL, cfg.AI.URL,
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger.Named("api")),
	)

	a := &app{cfg: cfg, logger: logger, client: client}
	a.explainer = newExplainer(cfg, client, logger)
	logger.Debug("configuration loaded",
		zap.String("backend", cfg.Backend.URL),
		zap.String("ai_driver", cfg.AI.Driver),
		zap.String("sequencing", cfg.UI.Sequencing))
	return a, nil
}

func newExplainer(cfg *config.Config, client *api.Client, logger *zap.Logger) ai.Explainer {
	if cfg.AI.Driver != config.DriverOpenAI {
		return client
	}
	return ai.NewOpenAI(ai.OpenAIConfig{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Logger:  logger.Named("openai"),
	})
}

// preferences opens the stored theme preference next to config.toml
func preferences(bus eventbus.EventBus, systemDark bool, logger *zap.Logger) (*theme.Store, error) {
	return theme.NewStore(theme.Options{
		Fs:         appFs,
		Path:       filepath.Join(config.DefaultDir(), theme.FileName),
		SystemDark: systemDark,
		Bus:        bus,
		Logger:     logger,
	})
}

// dark resolves the theme for printed output: the stored choice if any,
// otherwise the terminal background
func (a *app) dark() bool {
	store, err := preferences(nil, lipgloss.HasDarkBackground(), a.logger.Named("theme"))
	if err != nil {
		a.logger.Warn("ignoring unreadable preferences", zap.Error(err))
		return lipgloss.HasDarkBackground()
	}
	return store.Dark()
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
