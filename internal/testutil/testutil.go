// Package testutil provides shared test helpers for geometry assertions and
// scratch files.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertVecInDelta checks both components of got against want.
func AssertVecInDelta(t testing.TB, want, got r2.Vec, delta float64, msg ...interface{}) bool {
	t.Helper()
	okX := assert.InDelta(t, want.X, got.X, delta, msg...)
	okY := assert.InDelta(t, want.Y, got.Y, delta, msg...)
	return okX && okY
}

// AssertVecsInDelta checks point lists element by element.
func AssertVecsInDelta(t testing.TB, want, got []r2.Vec, delta float64) bool {
	t.Helper()
	if !assert.Len(t, got, len(want)) {
		return false
	}
	ok := true
	for i := range want {
		if !AssertVecInDelta(t, want[i], got[i], delta, "point %d", i) {
			ok = false
		}
	}
	return ok
}

// WriteTempFile writes body to name inside a per-test temp dir and returns
// the full path.
func WriteTempFile(t testing.TB, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
