// Package log wraps [log/slog] with the handlers and levels used by wml.
//
// A [Logger] is immutable. Options are applied when it is created with
// [Make] or derived with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//
// The package also keeps a default logger, reconfigured with [Config] and
// used by the package-level functions such as [Info] and [ErrorContext].
//
// Text output is rendered with lipgloss styles when pretty printing is
// enabled. Styles degrade to plain text when the output is not a terminal.
package log
