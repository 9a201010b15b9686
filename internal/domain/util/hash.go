package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// HashChunkSize is the read size used when hashing
const HashChunkSize = 8192

// ErrFileNotFound is returned by HashFile when the path does not exist
var ErrFileNotFound = fmt.Errorf("file not found: %w", fs.ErrNotExist)

// HashFile computes the SHA-256 hex digest of the file at path
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return HashReader(f)
}

// HashReader computes the SHA-256 hex digest of everything read from r
func HashReader(r io.Reader) (string, error) {
	hasher := sha256.New()
	buf := make([]byte, HashChunkSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read content: %w", err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// CalculateHash computes the SHA-256 hex digest of content
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
