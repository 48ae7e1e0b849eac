package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels, one per -v on the command line. A level selects which
// output categories are printed (see output.go) as well as the log level.
const (
	VerbosityUser  = 0 // results and errors
	VerbosityInfo  = 1 // -v: per-file progress, check diffs
	VerbosityDebug = 2 // -vv: config, per-record timing
	VerbosityTrace = 3 // -vvv: shapes and classifications
	VerbosityAll   = 4 // -vvvv: every emitted fragment
)

var levelNames = []string{
	VerbosityUser:  "User",
	VerbosityInfo:  "Info (-v)",
	VerbosityDebug: "Debug (-vv)",
	VerbosityTrace: "Trace (-vvv)",
	VerbosityAll:   "All (-vvvv)",
}

// VerbosityToLevel maps a -v count to a zap level: warnings by default,
// info at -v and debug from -vv on.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity >= VerbosityDebug:
		return zapcore.DebugLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// LevelName describes a -v count for log output.
func LevelName(verbosity int) string {
	switch {
	case verbosity < 0:
		return "Unknown"
	case verbosity > VerbosityAll:
		return "All (-vvvv+)"
	default:
		return levelNames[verbosity]
	}
}
