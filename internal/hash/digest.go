// Package hash digests encoded documents.
package hash

import "github.com/cespare/xxhash/v2"

// Sum returns the xxHash64 of an encoded document.
func Sum(doc []byte) uint64 {
	return xxhash.Sum64(doc)
}
