package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSection(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
}

func TestStore_Read(t *testing.T) {
	dir := t.TempDir()
	writeSection(t, dir, "52.219-9.md", "Small Business Subcontracting Plan.\n")

	store, err := New(dir)
	require.NoError(t, err)

	ref, err := core.ParseSectionRef("52.219-9")
	require.NoError(t, err)

	doc, err := store.Read(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "Small Business Subcontracting Plan.", doc.Text)
	assert.Equal(t, 52, doc.Chapter)
	assert.Equal(t, "52.219-9", doc.Section.String())
	assert.Equal(t, "52.219-9.md", doc.SourceFile)
}

func TestStore_ReadMissing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ref, err := core.ParseSectionRef("19.702")
	require.NoError(t, err)

	_, err = store.Read(context.Background(), ref)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	writeSection(t, dir, "52.219-9.md", "clause text")
	writeSection(t, dir, "19.702.md", "policy text")
	writeSection(t, dir, "1.101.md", "purpose text")
	writeSection(t, dir, "README.md", "not a section")
	writeSection(t, dir, "99.999.md", "part out of range")

	store, err := New(dir)
	require.NoError(t, err)

	refs, err := store.List(context.Background())
	require.NoError(t, err)

	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.String()
	}
	assert.Equal(t, []string{"1.101", "19.702", "52.219-9"}, names)
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
