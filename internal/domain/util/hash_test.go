package util

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256("hello world")
const helloHash = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, helloHash, hash)
}

func TestHashFile_NotFound(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestHashReader_MatchesCalculateHash(t *testing.T) {
	// Spans several chunks with a partial tail
	content := bytes.Repeat([]byte("0123456789abcdef"), HashChunkSize/8+3)

	hash, err := HashReader(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, CalculateHash(content), hash)
}

func TestHashReader_Empty(t *testing.T) {
	hash, err := HashReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hash)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk error") }

func TestHashReader_Error(t *testing.T) {
	_, err := HashReader(failingReader{})
	assert.ErrorContains(t, err, "disk error")
}
