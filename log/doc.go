// Package log is the leveled, structured logger shared by the interpreter
// and the command-line tools. It is a thin layer over [log/slog].
//
// A [Logger] is an immutable value: [Make] builds one from an output and
// functional options, and [Logger.Wrap], [Logger.With] and
// [Logger.WithGroup] derive new ones. The zero Logger discards every record,
// which lets library types embed a Logger without forcing configuration on
// their callers.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("ms"))
//	logger.Trace("token", slog.Any("token", tok))
//
// # Levels
//
// [LevelTrace] sits below [slog.LevelDebug]. The language packages log each
// token, node and cache lookup at trace level; user-facing tools log at
// info and above.
//
// # Formats
//
// [FormatText] writes key=value lines and, with [WithPretty], styles them
// for a terminal. [FormatJSON] writes one JSON object per record.
//
// # Package Logger
//
// The functions [Info], [Warn], [Error] and friends log through a package
// logger writing to standard error, which [Config] and [SetDefault] replace
// atomically.
package log
