//go:build race

package jnav_test

// The race detector allocates on its own, which breaks allocation counts.
const raceEnabled = true
