package post

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New("Hello", "First post")

	parsed, err := uuid.Parse(p.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())

	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "First post", p.Content)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestNew_IDsDoNotCollide(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		p := New("t", "c")
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestNew_AllowsEmptyFields(t *testing.T) {
	p := New("", "")
	assert.Empty(t, p.Title)
	assert.Empty(t, p.Content)
	assert.NotEmpty(t, p.ID)
}

func TestTouch(t *testing.T) {
	p := New("old title", "old content")
	created := p.CreatedAt

	p.Touch("new title", "new content")

	assert.Equal(t, "new title", p.Title)
	assert.Equal(t, "new content", p.Content)
	assert.Equal(t, created, p.CreatedAt)
	assert.True(t, !p.UpdatedAt.Before(created))
}
