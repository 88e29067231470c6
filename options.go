package cubotino

import (
	"log/slog"

	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

// Option configures a Solver.
type Option func(*config)

type config struct {
	metric     tables.Metric
	cacheDir   string
	logger     *slog.Logger
	estimator  robot.Estimator
	layout     robot.Layout
	alternates bool
	tables     *tables.Tables
}

func defaultConfig() *config {
	return &config{
		metric:     tables.FTM,
		logger:     slog.Default(),
		estimator:  robot.DefaultTiming(),
		layout:     robot.Scanned,
		alternates: true,
	}
}

// WithMetric selects the move metric for the search.
func WithMetric(m Metric) Option {
	return func(c *config) {
		c.metric = m
	}
}

// WithCacheDir stores tables in dir instead of ~/.cubotino/tables.
func WithCacheDir(dir string) Option {
	return func(c *config) {
		c.cacheDir = dir
	}
}

// WithLogger sets the logger for table creation and robot runs.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEstimator replaces the default servo timing used to rank programs.
func WithEstimator(e Estimator) Option {
	return func(c *config) {
		if e != nil {
			c.estimator = e
		}
	}
}

// WithLayout sets how the cube sits on the robot when a program starts.
// The default is the layout left by scanning.
func WithLayout(l Layout) Option {
	return func(c *config) {
		c.layout = l
	}
}

// WithAlternates enables or disables trying opposite-face variants of each
// solution. Enabled by default.
func WithAlternates(enabled bool) Option {
	return func(c *config) {
		c.alternates = enabled
	}
}

// withTables reuses already loaded tables. Tests use it to share one build.
func withTables(t *tables.Tables) Option {
	return func(c *config) {
		c.tables = t
		c.metric = t.Metric
	}
}
