package prfcdc

import "fmt"

// invariant panics with a prefixed message. It marks conditions that can
// only arise from a programming error in this package (HKDF expansion or
// AES key setup failing for fixed, valid lengths) rather than from the
// input stream or caller.
func invariant(format string, args ...any) {
	panic(fmt.Sprintf("prfcdc: invariant violation: "+format, args...))
}
