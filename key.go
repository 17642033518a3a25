package venvcache

import (
	"github.com/opencontainers/go-digest"

	"github.com/meigma/venvcache/manifest"
)

// Key derives the cache key for a canonical requirement collection: the
// SHA-256 digest of the collection's serialized form. The digest's encoded
// hex portion names the entry directory under the cache root.
//
// Serialization preserves first-seen order, so collections holding the same
// requirements in a different order produce different keys.
func Key(reqs *manifest.Collection) digest.Digest {
	return digest.FromString(reqs.String())
}

// validKeyName reports whether name is the encoded hex form of a cache key.
// Destructive operations refuse anything else.
func validKeyName(name string) bool {
	return digest.NewDigestFromEncoded(digest.Canonical, name).Validate() == nil
}
