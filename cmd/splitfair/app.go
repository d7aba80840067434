package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/config"
	"github.com/mmynk/splitfair/internal/metrics"
	"github.com/mmynk/splitfair/internal/notify"
	"github.com/mmynk/splitfair/internal/service"
	"github.com/mmynk/splitfair/internal/storage/sqlite"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	owedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	owingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// app holds what a command needs for one run.
type app struct {
	cfg      *config.Config
	store    *sqlite.SQLiteStore
	ledger   *service.LedgerService
	groups   *service.GroupService
	registry *prometheus.Registry
}

// runWithApp opens the store, builds the services, runs fn and then flushes
// metrics and closes the store.
func runWithApp(fn func(a *app) error) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Debug("Storage initialized", "database", cfg.Database.Path)

	registry := prometheus.NewRegistry()
	a := &app{
		cfg:      cfg,
		store:    store,
		registry: registry,
		groups:   service.NewGroupService(store),
		ledger: service.NewLedgerService(store,
			service.WithNotifier(notify.NewLogNotifier(slog.Default())),
			service.WithMetrics(metrics.New(registry)),
			service.WithCalculator(cfg.Calculator()),
			service.WithPlanner(cfg.Planner()),
		),
	}

	runErr := fn(a)

	if cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
			slog.Warn("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}
	return runErr
}

// formatAmount renders minor units with thousands separators, e.g. 1,250,000.
func formatAmount(v int64) string {
	return humanize.Comma(v)
}

// formatSigned colors a balance: green when owed, red when owing.
func formatSigned(v int64) string {
	switch {
	case v > 0:
		return owedStyle.Render("+" + formatAmount(v))
	case v < 0:
		return owingStyle.Render(formatAmount(v))
	default:
		return mutedStyle.Render("0")
	}
}

// parseParticipants reads "id" or "id=value" entries. Members listed in skip
// take part in the listing but not in the split.
func parseParticipants(with, skip []string) ([]calculator.Participant, error) {
	var out []calculator.Participant
	for _, entry := range with {
		id, raw, hasRaw := strings.Cut(strings.TrimSpace(entry), "=")
		p := calculator.Participant{MemberID: strings.TrimSpace(id), Checked: true}
		if hasRaw {
			d, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("invalid value for %s: %w", id, err)
			}
			p.Raw = decimal.NewNullDecimal(d)
		}
		out = append(out, p)
	}
	for _, id := range skip {
		out = append(out, calculator.Participant{MemberID: strings.TrimSpace(id)})
	}
	return out, nil
}

func requireFlag(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}
