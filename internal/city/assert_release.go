//go:build !citydebug

package city

const assertionsEnabled = false

func assertf(string, ...any) {}
