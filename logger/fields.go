package logger

import "go.uber.org/zap"

// Field names used in structured log entries.
const (
	FieldPackage = "package"
	FieldFile    = "file"
	FieldLine    = "line"
	FieldRecord  = "record"
	FieldField   = "field"

	FieldGenerator = "generator"
	FieldFragments = "fragments"
	FieldOutput    = "output"
	FieldPattern   = "pattern"

	FieldError = "error"

	FieldCount      = "count"
	FieldDurationMS = "duration_ms"

	FieldConfig    = "config"
	FieldVerbosity = "verbosity"
)

// ComponentLogger returns the global logger named after a component, e.g.
// "watch". Take it after Initialize has run.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger returns parent with additional context fields.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
