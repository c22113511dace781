// pkg/kdtree/assert.go
package kdtree

import "fmt"

// assert panics with a formatted message when cond is false. Used only for
// contract violations (programmer errors), never for recoverable runtime
// conditions — see spec section 7 of the design notes.
func assert(cond bool, f string, a ...any) {
	if cond {
		return
	}
	panic(fmt.Sprintf(f, a...))
}
