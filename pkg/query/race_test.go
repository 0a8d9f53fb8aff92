//go:build race

package query_test

// The race detector allocates on its own, which breaks allocation counts.
const raceEnabled = true
