package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/logging"
)

// effectiveLoggingConfig applies --debug and the BOOKCAT_LOG_* variables on
// top of the logging section of the loaded configuration. --debug wins over
// BOOKCAT_LOG_LEVEL and always logs to stderr.
func effectiveLoggingConfig(cmd *cobra.Command) config.LoggingConfig {
	lc := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	switch {
	case debug:
		lc.Level = "debug"
		lc.Format = logging.FormatConsole
		lc.File = ""
	case os.Getenv(logging.EnvLogLevel) != "":
		lc.Level = os.Getenv(logging.EnvLogLevel)
	}
	if format := os.Getenv(logging.EnvLogFormat); format != "" {
		lc.Format = format
	}
	return lc
}

// setupLogging builds the command logger, stores it with a trace id and the
// audit logger in the command context, and reports where logs go.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	lc := effectiveLoggingConfig(cmd)
	stderr := cmd.ErrOrStderr()

	if lc.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(lc.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")
	switch {
	case result.UsingFile:
		logging.PrintLogPathMessage(stderr, result.FilePath)
	case result.FallbackUsed:
		logging.PrintFallbackWarning(stderr, result.FallbackReason)
	}

	ctx := cmd.Context()
	ctx = logging.ContextWithTraceID(ctx, logging.GetOrGenerateTraceID(ctx))
	ctx = logger.WithContext(ctx)
	ctx = logging.ContextWithAuditLogger(ctx, logging.NewAuditLogger(lc.ToAuditConfig()))
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")
	return result
}

// cleanupLogging closes the audit log and, when logging to a file, the log file.
func cleanupLogging(cmd *cobra.Command, logResult *logging.LogPathResult) error {
	if err := logging.AuditLoggerFromContext(cmd.Context()).Close(); err != nil {
		return err
	}
	if logResult == nil {
		return nil
	}
	return logResult.Close()
}
