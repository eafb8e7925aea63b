package schema

// MetaIndexer holds the per-table sets of column names implied primary or
// unique by index definitions rather than column-level settings. It is
// computed once per table at assembly start and passed by reference into the
// field deriver.
type MetaIndexer struct {
	primary map[string]struct{}
	unique  map[string]struct{}
}

// NewMetaIndexer derives the primary-key and unique column sets from the
// table's index definitions.
func NewMetaIndexer(indexes []IndexDescriptor) *MetaIndexer {
	m := &MetaIndexer{
		primary: make(map[string]struct{}),
		unique:  make(map[string]struct{}),
	}
	for _, idx := range indexes {
		switch {
		case idx.Primary:
			for _, col := range idx.Columns {
				m.primary[col] = struct{}{}
			}
		case idx.Unique:
			for _, col := range idx.Columns {
				m.unique[col] = struct{}{}
			}
		}
	}
	return m
}

// IsPrimary reports whether an index definition marks the column as part of
// the primary key.
func (m *MetaIndexer) IsPrimary(column string) bool {
	_, ok := m.primary[column]
	return ok
}

// IsUnique reports whether an index definition marks the column unique.
func (m *MetaIndexer) IsUnique(column string) bool {
	_, ok := m.unique[column]
	return ok
}
