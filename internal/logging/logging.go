// Package logging builds the process logger: a charmbracelet/log handler
// behind the log/slog API.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error") in "text" or "json" format. Unknown values fall back to
// info and text.
func New(w io.Writer, level, format string) *slog.Logger {
	styles := log.DefaultStyles()
	infoColor := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnColor := lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	debugColor := lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}

	badge := func(s string, c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().SetString(s).Bold(true).Padding(0, 1).Foreground(c)
	}
	styles.Levels[log.ErrorLevel] = badge("ERR", errorColor)
	styles.Levels[log.WarnLevel] = badge("WARN", warnColor)
	styles.Levels[log.InfoLevel] = badge("INFO", infoColor)
	styles.Levels[log.DebugLevel] = badge("DEBUG", debugColor)

	styles.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["component"] = lipgloss.NewStyle().Foreground(debugColor)
	styles.Keys["command"] = lipgloss.NewStyle().Foreground(infoColor)
	styles.Keys["guild"] = lipgloss.NewStyle().Foreground(debugColor)

	formatter := log.TextFormatter
	if strings.EqualFold(format, "json") {
		formatter = log.JSONFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           parseLevel(level),
		Formatter:       formatter,
	})
	logger.SetStyles(styles)

	return slog.New(logger)
}

func parseLevel(level string) log.Level {
	l, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return l
}
