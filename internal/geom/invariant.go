//go:build !lensesdebug

package geom

import "log"

// invariant logs a violated invariant. Release builds continue with the
// caller's fallback; build with -tags lensesdebug to make violations fatal.
func invariant(ok bool, format string, args ...interface{}) {
	if !ok {
		log.Printf("WARNING: invariant violated: "+format, args...)
	}
}
