//go:build lensesdebug

package geom

import "log"

func invariant(ok bool, format string, args ...interface{}) {
	if !ok {
		log.Fatalf("invariant violated: "+format, args...)
	}
}
