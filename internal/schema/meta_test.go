package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaIndexerDerivesSets(t *testing.T) {
	meta := NewMetaIndexer([]IndexDescriptor{
		{Columns: []string{"tenant_id", "id"}, Primary: true},
		{Name: "users_email_key", Columns: []string{"email"}, Unique: true},
		{Name: "users_name_idx", Columns: []string{"name"}},
	})

	assert.True(t, meta.IsPrimary("tenant_id"))
	assert.True(t, meta.IsPrimary("id"))
	assert.False(t, meta.IsPrimary("email"))

	assert.True(t, meta.IsUnique("email"))
	assert.False(t, meta.IsUnique("name"))
	assert.False(t, meta.IsUnique("id"))
}

func TestMetaIndexerPrimaryWinsOverUnique(t *testing.T) {
	// A primary index is not double-counted into the unique set even when
	// flagged unique as well.
	meta := NewMetaIndexer([]IndexDescriptor{
		{Columns: []string{"id"}, Primary: true, Unique: true},
	})

	assert.True(t, meta.IsPrimary("id"))
	assert.False(t, meta.IsUnique("id"))
}

func TestMetaIndexerEmpty(t *testing.T) {
	meta := NewMetaIndexer(nil)
	assert.False(t, meta.IsPrimary("id"))
	assert.False(t, meta.IsUnique("id"))
}
