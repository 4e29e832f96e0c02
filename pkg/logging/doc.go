// Package logging provides structured logging utilities for nodediag components.
//
// # Overview
//
// This package wraps the standard library slog package with collector-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("nodediag", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("processing request", "id", "req-123")
//	    slog.Debug("detailed state", "data", complexObject)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("collector", "v2.0.0", "debug")
//	logger.Info("run starting", "workers", 4)
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("nodediag", "v1.0.0", "warn")
//
// Converting standard library logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelInfo, false)
//	stdLogger.Println("legacy log message")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug nodediag collect
//	LOG_LEVEL=error nodediag specs
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "collection complete",
//	    "module": "nodediag",
//	    "version": "v1.0.0",
//	    "executed": 42
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "engine.(*Scheduler).resolve",
//	        "file": "scheduler.go",
//	        "line": 45
//	    },
//	    "msg": "component finished",
//	    "module": "nodediag",
//	    "version": "v1.0.0"
//	}
//
// # Content Safety
//
// Collected lines are never logged. Log component names, codes and counts:
//
//	slog.Warn("component failed",
//	    "component", c.Name,
//	    "code", errors.CodeOf(err),
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/engine - component transition logging
//   - pkg/collector - persistence logging
//
// All components share consistent logging format and configuration.
package logging
