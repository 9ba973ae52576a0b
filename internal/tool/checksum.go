// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrChecksumMismatch indicates the computed SHA-256 does not match the expected one.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrInvalidChecksum indicates a checksum that is not 64 hex characters.
	ErrInvalidChecksum = errors.New("invalid checksum")
)

// ChecksumError describes a verification failure. It wraps ErrChecksumMismatch.
type ChecksumError struct {
	Filename string
	Expected string
	Got      string
}

// Error returns both hashes for comparison.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// VerifyFile compares the SHA-256 of the file at path with expected,
// case-insensitively.
func VerifyFile(path, expected string) error {
	if !IsValidChecksum(expected) {
		return fmt.Errorf("%w: %q", ErrInvalidChecksum, expected)
	}

	got, err := ComputeFileHash(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, expected) {
		return &ChecksumError{Filename: path, Expected: strings.ToLower(expected), Got: got}
	}
	return nil
}

// ComputeFileHash streams the file at path through SHA-256 and returns the
// lowercase hex digest.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // read-only

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsValidChecksum reports whether s is a 64-character hex SHA-256 digest.
func IsValidChecksum(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
