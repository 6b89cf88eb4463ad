package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Key builds a deterministic cache key from the service name and query
// parameters. Parameters are sorted before hashing so equivalent queries
// collide regardless of map iteration order.
func Key(service string, params map[string]string) string {
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)

	sum := md5.Sum([]byte(service + ":" + strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}
