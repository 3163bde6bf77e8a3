package docstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore_Read(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instrucciones-ingreso.pdf"), []byte("%PDF-1.4"), 0600))

	store := NewDirStore(dir)
	data, err := store.Read("instrucciones-ingreso.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestDirStore_MissingDocument(t *testing.T) {
	store := NewDirStore(t.TempDir())
	_, err := store.Read("nope.pdf")
	assert.Error(t, err)
}

func TestDirStore_RejectsInvalidNames(t *testing.T) {
	store := NewDirStore(t.TempDir())

	for _, name := range []string{"", "../secret.pdf", "sub/dir.pdf", ".hidden"} {
		_, err := store.Read(name)
		assert.Error(t, err, "name %q must be rejected", name)
	}
}
