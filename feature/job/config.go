package job

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"reconciler/core/compare"
	"reconciler/core/database"
	"reconciler/core/reconcile"
	"reconciler/core/tuple"
)

// Source types.
const (
	SourceSQL = "sql"
	SourceCSV = "csv"
)

// Config describes one reconciliation job.
type Config struct {
	// PrimaryKey lists the key columns, most significant first.
	PrimaryKey []string `mapstructure:"primary_key" default:""`
	// Exclude lists columns that are never compared.
	Exclude []string `mapstructure:"exclude" default:""`
	// Epsilon is the default numeric tolerance.
	Epsilon float64 `mapstructure:"epsilon" default:"0.00001"`
	// Tolerances overrides the numeric tolerance per column.
	Tolerances map[string]float64 `mapstructure:"tolerances"`
	// OrderCheck fails the run when a source is not in key order.
	OrderCheck bool `mapstructure:"order_check" default:"false"`
	// RowEvents emits DATA_LEFT and DATA_RIGHT for every row read.
	RowEvents bool `mapstructure:"row_events" default:"false"`
	// ContinueOnError keeps delivering events when an attached consumer fails.
	ContinueOnError bool `mapstructure:"continue_on_error" default:"false"`
	// RecordLimit caps the difference records kept per run; zero keeps all.
	RecordLimit int `mapstructure:"record_limit" default:"1000"`
	// CacheTTLSeconds is how long Compare reuses a result; zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`

	// Left is the reference source.
	Left SourceConfig `mapstructure:"left"`
	// Right is the candidate source.
	Right SourceConfig `mapstructure:"right"`
}

// SourceConfig describes where one side's rows come from.
type SourceConfig struct {
	// Type is "sql" or "csv".
	Type string `mapstructure:"type" default:"sql"`

	// Database is the connection of a SQL source.
	Database database.Config `mapstructure:"database"`
	// Table is read completely when set.
	Table string `mapstructure:"table" default:""`
	// Query is read instead of Table when set.
	Query string `mapstructure:"query" default:""`
	// Columns restricts a table source to the listed columns.
	Columns []string `mapstructure:"columns" default:""`

	// Path is a local CSV file.
	Path string `mapstructure:"path" default:""`
	// Object is a CSV object in the storage bucket, used when Path is empty.
	Object string `mapstructure:"object" default:""`
	// Delimiter is the CSV field separator.
	Delimiter string `mapstructure:"delimiter" default:","`
	// Sorted tells whether the CSV rows are already in key order.
	Sorted bool `mapstructure:"sorted" default:"true"`
	// Kinds declares column kinds of a CSV source, e.g. {"id": "integer"}.
	Kinds map[string]string `mapstructure:"kinds"`
}

// CacheTTL returns the result cache lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate checks the job for missing or contradictory settings.
func (c Config) Validate() error {
	var errs []error
	if len(c.PrimaryKey) == 0 {
		errs = append(errs, errors.New("primary_key is required"))
	}
	if c.Epsilon < 0 {
		errs = append(errs, errors.New("epsilon must not be negative"))
	}
	if err := c.Left.validate(); err != nil {
		errs = append(errs, fmt.Errorf("left: %w", err))
	}
	if err := c.Right.validate(); err != nil {
		errs = append(errs, fmt.Errorf("right: %w", err))
	}
	return errors.Join(errs...)
}

func (s SourceConfig) validate() error {
	switch s.Type {
	case SourceSQL:
		if s.Database.Name == "" {
			return errors.New("database.name is required")
		}
		if (s.Table == "") == (s.Query == "") {
			return errors.New("exactly one of table or query is required")
		}
	case SourceCSV:
		if (s.Path == "") == (s.Object == "") {
			return errors.New("exactly one of path or object is required")
		}
		if len([]rune(s.Delimiter)) > 1 {
			return fmt.Errorf("delimiter %q must be a single character", s.Delimiter)
		}
		if _, err := s.kinds(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source type %q", s.Type)
	}
	return nil
}

func (s SourceConfig) kinds() (map[string]tuple.Kind, error) {
	out := make(map[string]tuple.Kind, len(s.Kinds))
	for name, kind := range s.Kinds {
		k, err := tuple.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		out[name] = k
	}
	return out, nil
}

func (s SourceConfig) delimiter() rune {
	if s.Delimiter == "" {
		return ','
	}
	return []rune(s.Delimiter)[0]
}

// Describe names the source for logs.
func (s SourceConfig) Describe() string {
	switch {
	case s.Type == SourceSQL && s.Table != "":
		return fmt.Sprintf("%s table %s.%s", s.Database.Driver, s.Database.Name, s.Table)
	case s.Type == SourceSQL:
		return fmt.Sprintf("%s query on %s", s.Database.Driver, s.Database.Name)
	case s.Path != "":
		return "csv " + s.Path
	}
	return "csv object " + s.Object
}

// Resolver builds the comparator resolver: per-column tolerances first, then
// the default numeric tolerance, then natural ordering.
func (c Config) Resolver() *compare.Resolver {
	names := make([]string, 0, len(c.Tolerances))
	for name := range c.Tolerances {
		names = append(names, name)
	}
	slices.Sort(names)

	overrides := make([]compare.Comparator, 0, len(names))
	for _, name := range names {
		overrides = append(overrides, compare.ColumnTolerance(name, c.Tolerances[name]))
	}
	return compare.NewResolver(compare.Config{Overrides: overrides, Epsilon: c.Epsilon})
}

// Spec builds the engine settings.
func (c Config) Spec() reconcile.Spec {
	return reconcile.Spec{
		PrimaryKey: trimAll(c.PrimaryKey),
		Exclude:    trimAll(c.Exclude),
		Resolver:   c.Resolver(),
	}
}

func trimAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
