//go:build !debug

package debug

// Debug is true when the library is built with the "debug" tag.
const Debug = false

// Assert does nothing in non-debug builds.
func Assert(condition bool, message ...string) {}
