package testutil

import (
	"os"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertVecInDelta(t *testing.T) {
	t.Parallel()

	if !AssertVecInDelta(t, r2.Vec{X: 1, Y: 2}, r2.Vec{X: 1 + 1e-12, Y: 2}, 1e-9) {
		t.Fatal("expected vectors within delta")
	}
	want := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}
	if !AssertVecsInDelta(t, want, []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1 - 1e-12}}, 1e-9) {
		t.Fatal("expected point lists within delta")
	}
}

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path := WriteTempFile(t, "scene.json", `{"name":"x"}`)
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(data) != `{"name":"x"}` {
		t.Errorf("contents = %q", data)
	}
}
