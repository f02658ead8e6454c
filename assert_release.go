//go:build !fastoverlay_debug

package fastoverlay

func assertf(bool, string, ...any) {}
