package quizcache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key returns the cache key for a quiz request. The topic is trimmed; the
// caller substitutes the default topic before keying.
func Key(topic string, n int) string {
	d := xxhash.New()
	d.WriteString(strings.TrimSpace(topic))
	d.WriteString("_")
	d.WriteString(strconv.Itoa(n))
	return fmt.Sprintf("%016x", d.Sum64())
}

// Scoped prefixes key with a namespace such as an HTTP session ID.
func Scoped(scope, key string) string {
	if scope == "" {
		return key
	}
	return scope + ":" + key
}
