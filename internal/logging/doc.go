// Package logging provides structured logging for backoffice.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation. The TUI owns the terminal, so logs go to a rotating
// file rather than stderr.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("page loaded", "records", 10, "duration_ms", 42)
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	screenLogger := logger.WithScreen("blog-posts")
//	reqLogger := screenLogger.WithRequest(7)
//	reqLogger.Warn("stale response discarded")
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"stale response discarded","screen":"blog-posts","request_seq":7}
//
// # Log Rotation
//
// Rotation is delegated to lumberjack:
//
//	logger, err := logging.NewLoggerWithRotation(dir, "DEBUG", logging.RotationConfig{
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	    Compress:   true,
//	})
//
// # Testing
//
// Use [NopLogger] to discard output. A nil *Logger is also safe to call.
package logging
