package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mchmarny/menuview/pkg/client"
	"github.com/mchmarny/menuview/pkg/config"
	"github.com/mchmarny/menuview/pkg/logger"
	"github.com/mchmarny/menuview/pkg/view"
)

const (
	appName = "menuview"

	defaultTermWidth = 80
)

// errItemNotFound is returned by show when no item has the requested name.
var errItemNotFound = errors.New("menu item not found")

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	var (
		plain bool
		style string
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Browse the menu published by a local menu server",
		Long:          "Fetches the menu from the configured endpoint and shows it as a searchable list.\nPress enter on an item for its details, / to filter, q to quit.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			if plain || !isTerminal(cmd.OutOrStdout()) {
				logger.SetDefaultLoggerWithLevel(cmd.ErrOrStderr(), appName, version, cfg.LogLevel)
				st := client.New(cfg.URL).Load(cmd.Context())
				return view.RenderPlain(cmd.OutOrStdout(), st)
			}

			return runInteractive(cmd, cfg, style)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.URL, "url", cfg.URL, "Menu endpoint (env "+config.EnvVarURL+")")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env "+logger.EnvVarLogLevel+")")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file used while the viewer owns the terminal (env "+config.EnvVarLogFile+")")
	flags.StringVar(&style, "style", view.StyleAuto, "Markdown style for item details: auto, dark, light, notty")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print name and price rows instead of the interactive list")

	cmd.AddCommand(
		newShowCmd(cfg, &style),
		newServeCmd(cfg),
		newVersionCmd(),
	)

	return cmd
}

func runInteractive(cmd *cobra.Command, cfg *config.Config, style string) error {
	closer, err := logger.SetDefaultFileLogger(cfg.LogFile, appName, version, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Info("starting viewer", "url", cfg.URL, "commit", commit, "date", date)

	// Resolve the style before the program takes over the terminal input.
	if style == view.StyleAuto {
		style = "light"
		if lipgloss.HasDarkBackground() {
			style = "dark"
		}
	}

	c := client.New(cfg.URL)
	m := view.New(cmd.Context(), c.Load, view.WithStyle(style))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive viewer: %w", err)
	}

	return nil
}

func newShowCmd(cfg *config.Config, style *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print the details of the first menu item with the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.SetDefaultLoggerWithLevel(cmd.ErrOrStderr(), appName, version, cfg.LogLevel)

			st := client.New(cfg.URL).Load(cmd.Context())
			if st.IsEmpty() {
				return view.RenderPlain(cmd.OutOrStdout(), st)
			}

			for _, it := range st.Items {
				if it.Name != args[0] {
					continue
				}

				s, width := *style, terminalWidth(cmd.OutOrStdout())
				if !isTerminal(cmd.OutOrStdout()) {
					s = view.StylePlain
				}

				out, err := view.RenderDetail(it, s, width)
				if err != nil {
					slog.Warn("falling back to raw markdown", "error", err)
				}
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}

			return fmt.Errorf("%w: %q", errItemNotFound, args[0])
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit: %s, built: %s)\n", appName, version, commit, date)
		},
	}
}

// isTerminal reports whether w is a terminal. Anything but a terminal *os.File is not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
