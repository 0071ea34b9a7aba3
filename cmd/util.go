package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()

	greenCheck = color.GreenString("✔")
	redCross   = color.RedString("✘")
)

// logError logs a failed remote call together with its correlation id and returns err.
func logError(err error, correlation, msg string) error {
	ev := log.Error().Err(err)
	if correlation != "" {
		ev = ev.Str("correlation_id", correlation)
	}
	ev.Msg(msg)
	return err
}

func logSuccess(format string, args ...any) {
	fmt.Printf("%s %s\n", greenCheck, fmt.Sprintf(format, args...))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
