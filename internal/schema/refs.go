package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RelationKind is the closed set of relation cardinalities. Only OneToOne and
// ManyToOne survive transpilation; the remaining kinds are rejected up front
// by ValidateRelations.
type RelationKind int

const (
	// KindUndefined is the zero value and always invalid.
	KindUndefined RelationKind = iota
	KindOneToOne
	KindOneToMany
	KindManyToOne
	KindManyToMany
)

var kindNames = map[RelationKind]string{
	KindUndefined:  "undefined",
	KindOneToOne:   "one_to_one",
	KindOneToMany:  "one_to_many",
	KindManyToOne:  "many_to_one",
	KindManyToMany: "many_to_many",
}

// String returns the canonical name of the kind.
func (k RelationKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("relation_kind(%d)", int(k))
}

// MarshalText encodes the kind by its canonical name.
func (k RelationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a canonical kind name. Unknown names decode to
// KindUndefined so that validation reports them instead of the decoder.
func (k *RelationKind) UnmarshalText(text []byte) error {
	s := string(text)
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	*k = KindUndefined
	return nil
}

// MarshalYAML encodes the kind by its canonical name.
func (k RelationKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML decodes a canonical kind name from a YAML scalar.
func (k *RelationKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// ReferentialAction is an ON DELETE / ON UPDATE action as written in the
// source schema.
type ReferentialAction string

const (
	ActionCascade    ReferentialAction = "cascade"
	ActionRestrict   ReferentialAction = "restrict"
	ActionSetNull    ReferentialAction = "set null"
	ActionSetDefault ReferentialAction = "set default"
	ActionNoAction   ReferentialAction = "no action"
)

// Endpoint identifies one side of a relation: an optionally schema-qualified
// table and the ordered list of composed column names. Composite keys carry
// more than one composition; only the first names generated fields.
type Endpoint struct {
	Schema       string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Table        string   `json:"table" yaml:"table"`
	Compositions []string `json:"compositions" yaml:"compositions"`
}

// Ident returns the endpoint's table identifier.
func (e Endpoint) Ident() Ident {
	return Ident{Schema: e.Schema, Name: e.Table}
}

// String renders the endpoint for error messages.
func (e Endpoint) String() string {
	if e.Schema != "" {
		return e.Schema + "." + e.Table
	}
	return e.Table
}

// RelationSource is the owning side of a relation. A schema text may omit the
// owning endpoint when the relation is declared inline on a column; the
// upstream resolver then records the declaring column here and marks the
// source Inferred. Inferred and explicit sources are validated and rendered
// identically; the flag survives only for diagnostics.
type RelationSource struct {
	Endpoint Endpoint `json:"endpoint" yaml:"endpoint"`
	Inferred bool     `json:"inferred,omitempty" yaml:"inferred,omitempty"`
}

// RelationDescriptor is a typed edge between two table endpoints. The target
// endpoint is always present; the source carries the explicit-vs-inferred
// distinction described on RelationSource.
type RelationDescriptor struct {
	Kind     RelationKind       `json:"kind" yaml:"kind"`
	Source   RelationSource     `json:"source" yaml:"source"`
	Target   Endpoint           `json:"target" yaml:"target"`
	OnDelete ReferentialAction  `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
	OnUpdate ReferentialAction  `json:"on_update,omitempty" yaml:"on_update,omitempty"`
}

// String identifies the relation for error messages.
func (r RelationDescriptor) String() string {
	return fmt.Sprintf("%s -> %s (%s)", r.Source.Endpoint.String(), r.Target.String(), r.Kind)
}

// TableRefs partitions the schema-wide relation list from the point of view
// of one table, preserving the original relation order inside each set.
type TableRefs struct {
	// Self holds relations whose both endpoints resolve to the table.
	Self []RelationDescriptor
	// Outgoing holds relations owned by the table that point elsewhere.
	Outgoing []RelationDescriptor
	// Incoming holds relations owned elsewhere that point at the table.
	Incoming []RelationDescriptor
}

// RefsFor partitions relations for the given table identifier. Table equality
// compares both name and schema, with an unset schema treated as the empty
// string on both sides.
func RefsFor(relations []RelationDescriptor, table Ident) TableRefs {
	var refs TableRefs
	for _, rel := range relations {
		src := rel.Source.Endpoint.Ident() == table
		dst := rel.Target.Ident() == table
		switch {
		case src && dst:
			refs.Self = append(refs.Self, rel)
		case src:
			refs.Outgoing = append(refs.Outgoing, rel)
		case dst:
			refs.Incoming = append(refs.Incoming, rel)
		}
	}
	return refs
}

// ValidateRelations rejects the whole schema before any output is produced:
// every relation must be OneToOne or ManyToOne and both endpoints must name a
// table and carry at least one composed column.
func ValidateRelations(relations []RelationDescriptor) error {
	for _, rel := range relations {
		switch rel.Kind {
		case KindOneToOne, KindManyToOne:
		default:
			return &UnsupportedRelationError{Relation: rel}
		}
		if rel.Source.Endpoint.Table == "" || len(rel.Source.Endpoint.Compositions) == 0 {
			return &MissingCompositionError{Relation: rel, Side: "source"}
		}
		if rel.Target.Table == "" || len(rel.Target.Compositions) == 0 {
			return &MissingCompositionError{Relation: rel, Side: "target"}
		}
	}
	return nil
}
