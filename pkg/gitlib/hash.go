// Package gitlib wraps the libgit2 operations hibmigrate needs: locating the
// repository that holds a source tree and reading its index.
package gitlib

import (
	"encoding/hex"

	git2go "github.com/libgit2/git2go/v34"
)

// HashSize is the size of a SHA-1 hash in bytes.
const HashSize = 20

const shortHashLen = 12

// Hash represents a git object hash (SHA-1).
type Hash [HashSize]byte

// HashFromOid converts a libgit2 Oid to Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	copy(h[:], oid[:])

	return h
}

// String returns the hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the abbreviated hex form used in reports.
func (h Hash) Short() string {
	return h.String()[:shortHashLen]
}

// IsZero reports whether the hash is all zeros, as for an unborn HEAD.
func (h Hash) IsZero() bool {
	return h == Hash{}
}
