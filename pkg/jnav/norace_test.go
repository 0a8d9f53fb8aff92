//go:build !race

package jnav_test

const raceEnabled = false
