package logger

// OutputCategory is a kind of command output. Each category is printed from
// a minimum verbosity on, independent of log severity.
type OutputCategory int

const (
	OutputResults   OutputCategory = iota // written files, check verdicts
	OutputErrors                          // annotation errors with positions
	OutputProgress                        // per-file progress, check diffs
	OutputConfig                          // loaded configuration
	OutputTiming                          // generation timing
	OutputShapes                          // shape descriptions and classifications
	OutputFragments                       // every emitted fragment
)

var categories = map[OutputCategory]struct {
	name      string
	verbosity int
}{
	OutputResults:   {"results", VerbosityUser},
	OutputErrors:    {"errors", VerbosityUser},
	OutputProgress:  {"progress", VerbosityInfo},
	OutputConfig:    {"config", VerbosityDebug},
	OutputTiming:    {"timing", VerbosityDebug},
	OutputShapes:    {"shapes", VerbosityTrace},
	OutputFragments: {"fragments", VerbosityAll},
}

// ShouldOutput reports whether category is shown at verbosity. Unknown
// categories need the highest verbosity.
func ShouldOutput(verbosity int, category OutputCategory) bool {
	c, ok := categories[category]
	if !ok {
		return verbosity >= VerbosityAll
	}
	return verbosity >= c.verbosity
}

// CategoryName returns the name of category, or "unknown".
func CategoryName(category OutputCategory) string {
	if c, ok := categories[category]; ok {
		return c.name
	}
	return "unknown"
}
