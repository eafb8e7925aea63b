// Package dialect selects the per-target type-mapping and naming tables.
// Adding a target adds a new mapping table; resolution logic elsewhere stays
// untouched.
package dialect

import "fmt"

// Target is the closed set of supported database targets.
type Target string

const (
	// Postgres is currently the only supported target.
	Postgres Target = "postgres"
)

// Mapping is the result of mapping one semantic column type.
type Mapping struct {
	// Native is the model field type in the generated source.
	Native string
	// ColumnType is the explicit column-type attribute value, empty when the
	// native type maps silently.
	ColumnType string
}

// Dialect abstracts the target-specific mapping tables.
type Dialect interface {
	// Name returns the target name.
	Name() string
	// DefaultSchema returns the schema assumed when a table carries none.
	DefaultSchema() string
	// TypeMapping maps a semantic column type. Unmapped types fall through to
	// a dialect-defined passthrough.
	TypeMapping(semantic string) Mapping
}

// New returns the dialect for the given target.
func New(target Target) (Dialect, error) {
	switch target {
	case Postgres:
		return &PostgresDialect{}, nil
	default:
		return nil, fmt.Errorf("dialect: unsupported target %q", target)
	}
}

// Ensure interface implementation
var _ Dialect = (*PostgresDialect)(nil)
