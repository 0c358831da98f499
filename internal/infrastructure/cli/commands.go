package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/iop/internal/app"
	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

func newConfigCommand(container *app.Container, terminal *Terminal) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect iop configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (API key hidden)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			terminal.Println("Config file: " + container.ConfigLoader.Path())
			return terminal.Table([]string{"Parameter", "Value"}, configRows(container.Config))
		},
	}

	configCmd.AddCommand(showCmd)
	return configCmd
}

func newHistoryCommand(container *app.Container, terminal *Terminal) *cobra.Command {
	var (
		limit  int
		search string
	)
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List executed commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.HistoryStore.Records(cmd.Context(), limit, search)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				terminal.Notice(ports.NoticeInfo, "", "History is empty.")
				return nil
			}
			return terminal.Table([]string{"Time", "Query", "Command", "Exit", "Risk"}, historyRows(records))
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	historyCmd.Flags().StringVar(&search, "search", "", "Only show entries whose query or command contains this text")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.HistoryStore.Clear(cmd.Context()); err != nil {
				return err
			}
			terminal.Notice(ports.NoticeSuccess, "", "History cleared.")
			return nil
		},
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return container.HistoryStore.ExportJSON(cmd.Context(), cmd.OutOrStdout())
			}
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.SecureFilePermissions)
			if err != nil {
				return err
			}
			if err := container.HistoryStore.ExportJSON(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	historyCmd.AddCommand(clearCmd, exportCmd)
	return historyCmd
}

func newCacheCommand(container *app.Container, terminal *Terminal) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}
	maxAge := container.Config.GetCacheMaxAge()

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.CacheStore.Entries(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				terminal.Notice(ports.NoticeInfo, "", "Cache is empty.")
				return nil
			}
			return terminal.Table([]string{"Model", "Query", "Response", "Cached at", "State"}, cacheRows(entries, time.Now(), maxAge))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.CacheStore.Clear(cmd.Context()); err != nil {
				return err
			}
			terminal.Notice(ports.NoticeSuccess, "", "Cache cleared.")
			return nil
		},
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete entries older than cache.max_age_hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := container.CacheStore.Prune(cmd.Context(), maxAge)
			if err != nil {
				return err
			}
			terminal.Notice(ports.NoticeSuccess, "", fmt.Sprintf("Removed %d stale entries.", removed))
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache database location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.CacheStore.Path())
			return nil
		},
	}

	cacheCmd.AddCommand(listCmd, clearCmd, pruneCmd, pathCmd)
	return cacheCmd
}

func newDoctorCommand(container *app.Container, terminal *Terminal) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, storage and clipboard setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := container.NewDoctorService().Run(cmd.Context())
			rows := make([][]string, 0, len(report.Checks))
			for _, check := range report.Checks {
				rows = append(rows, []string{check.Name, strings.ToUpper(string(check.Status)), check.Details})
			}
			if err := terminal.Table([]string{"Check", "Status", "Details"}, rows); err != nil {
				return err
			}
			if report.Failed() {
				return errors.New("diagnostics found errors")
			}
			return nil
		},
	}
}

func printUsage(terminal *Terminal, cfg domain.Config) {
	terminal.Println("Usage: iop [-a] [-k] [-v] <your question or command>")
	terminal.Println("Arguments:")
	terminal.Println("  -a, --ask:     Ask for confirmation before running the command")
	terminal.Println("  -k, --key:     Change the OpenRouter API key")
	terminal.Println("  -v, --version: Show the program version")
	terminal.Println("")
	terminal.Println("Current configuration")
	_ = terminal.Table([]string{"Parameter", "Value"}, configRows(cfg))
}

// configRows lists the settings shown to the user. The API key is never included.
func configRows(cfg domain.Config) [][]string {
	return [][]string{
		{"Model", cfg.Model},
		{"Temperature", strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)},
		{"Max_tokens", strconv.Itoa(cfg.MaxTokens)},
		{"Your_app_name", cfg.GetAppName()},
		{"Safety", strconv.FormatBool(cfg.Safety)},
		{"Modify", strconv.FormatBool(cfg.Modify)},
		{"Endpoint", cfg.GetEndpoint()},
		{"Timeout", cfg.GetTimeout().String()},
		{"Cache max age", cfg.GetCacheMaxAge().String()},
		{"Guardrail", strconv.FormatBool(cfg.Security.Enabled)},
	}
}

func historyRows(records []domain.HistoryRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		exit := strconv.Itoa(rec.ExitCode)
		if !rec.Executed {
			exit = "-"
		}
		rows = append(rows, []string{
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(rec.Query, 40),
			truncate(rec.Command, 60),
			exit,
			string(rec.RiskLevel),
		})
	}
	return rows
}

func cacheRows(entries []domain.CacheEntry, now time.Time, maxAge time.Duration) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		state := "fresh"
		if entry.Expired(now, maxAge) {
			state = "stale"
		}
		rows = append(rows, []string{
			entry.Model,
			truncate(entry.Query, 40),
			truncate(entry.Response, 40),
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			state,
		})
	}
	return rows
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
