//go:build fastoverlay_debug

package fastoverlay

import "fmt"

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("fastoverlay: invariant violated: "+format, args...))
	}
}
