package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the transpiler can surface. All
// failures are returned as values; the core never terminates the process.
var (
	// ErrUnsupportedRelation indicates a relation kind the target framework
	// cannot express.
	ErrUnsupportedRelation = errors.New("seagen: unsupported relation kind")
	// ErrMissingComposition indicates a relation endpoint without composed
	// columns.
	ErrMissingComposition = errors.New("seagen: relation endpoint has no composed columns")
	// ErrNamingCollision indicates two relations of one table that would
	// generate the same variant name.
	ErrNamingCollision = errors.New("seagen: relation variant naming collision")
)

// UnsupportedRelationError reports a relation whose kind cannot be
// transpiled. It carries the offending relation's identity.
type UnsupportedRelationError struct {
	Relation RelationDescriptor
}

// Error implements the error interface.
func (e *UnsupportedRelationError) Error() string {
	return fmt.Sprintf("seagen: unsupported relation kind %s on %s -> %s",
		e.Relation.Kind, e.Relation.Source.Endpoint.String(), e.Relation.Target.String())
}

// Is reports whether the target matches the sentinel for this error class.
func (e *UnsupportedRelationError) Is(target error) bool {
	return target == ErrUnsupportedRelation
}

// MissingCompositionError reports a relation endpoint with no composed
// columns or no table name.
type MissingCompositionError struct {
	Relation RelationDescriptor
	Side     string // "source" or "target"
}

// Error implements the error interface.
func (e *MissingCompositionError) Error() string {
	return fmt.Sprintf("seagen: %s endpoint of relation %s has no composed columns", e.Side, e.Relation)
}

// Is reports whether the target matches the sentinel for this error class.
func (e *MissingCompositionError) Is(target error) bool {
	return target == ErrMissingComposition
}

// NamingCollisionError reports two relations of one table generating the same
// relation variant name.
type NamingCollisionError struct {
	Table   Ident
	Variant string
}

// Error implements the error interface.
func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("seagen: table %s has multiple relations generating variant %s", e.Table.Name, e.Variant)
}

// Is reports whether the target matches the sentinel for this error class.
func (e *NamingCollisionError) Is(target error) bool {
	return target == ErrNamingCollision
}
