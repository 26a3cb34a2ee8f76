package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dsaview/internal/eventbus"
	"dsaview/internal/session"
	"dsaview/internal/ui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive interface",
	Long: `Start the interactive interface.

Type to search, press f to filter by data structure, enter to open a
solution and a to ask about it. This is also what dsaview runs when no
subcommand is given.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger

	ctx, cancel := signalContext()
	defer cancel()

	bus := eventbus.New(logger.Named("eventbus"))
	defer bus.Close()

	store, err := preferences(bus, lipgloss.HasDarkBackground(), logger.Named("theme"))
	if err != nil {
		return err
	}

	policy, err := session.ParsePolicy(a.cfg.UI.Sequencing)
	if err != nil {
		return &ConfigError{Err: err}
	}

	model := ui.New(ui.Options{
		Context:         ctx,
		Backend:         a.client,
		Explainer:       a.explainer,
		Theme:           store,
		Logger:          logger.Named("ui"),
		Policy:          policy,
		Debounce:        a.cfg.Debounce(),
		MinQueryLength:  a.cfg.UI.MinQueryLength,
		NotificationTTL: a.cfg.NotificationTTL(),
		Animate:         true,
		SystemDark:      sampleSystemDark,
	})
	defer model.Close()

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithReportFocus()}
	if a.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventThemeChanged,
		eventbus.EventPreferenceSaved,
		eventbus.EventError,
	} {
		unsubscribe := bus.Subscribe(t, forward)
		defer unsubscribe()
	}

	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("starting interface", zap.String("backend", a.cfg.Backend.URL))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// sampleSystemDark queries the terminal background again. It is called
// when the terminal regains focus.
func sampleSystemDark() bool {
	return lipgloss.NewRenderer(os.Stdout).HasDarkBackground()
}
