package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey derives a namespaced key, prefix:sha256(parts), so the table and
// image key spaces never collide.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data. Graph content hashes use this over
// the marshaled GraphML bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ImagesKey is the cache key for the isomorphisms of one template into one
// host graph. Both graphs are identified by content hash, so any change to
// either invalidates the entry.
func ImagesKey(hostHash, templateHash, edgeAttr string) string {
	return hashKey("images", hostHash, templateHash, edgeAttr)
}

// TableKey is the cache key for the pattern table extracted from one example
// graph with one template.
func TableKey(exampleHash, templateHash, nodeAttr, edgeAttr string) string {
	return hashKey("table", exampleHash, templateHash, nodeAttr, edgeAttr)
}
