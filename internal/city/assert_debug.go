//go:build citydebug

package city

import "fmt"

const assertionsEnabled = true

func assertf(format string, args ...any) {
	panic(fmt.Sprintf("city: assertion failed: "+format, args...))
}
