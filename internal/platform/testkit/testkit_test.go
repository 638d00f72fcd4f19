package testkit

import "testing"

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
}

var seam = "real"

func TestSwap_RestoresAfterTest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &seam, "fake")
		if seam != "fake" {
			t.Fatalf("seam = %q", seam)
		}
	})
	if seam != "real" {
		t.Fatalf("seam not restored: %q", seam)
	}
}

func TestSerial_ReleasesLock(t *testing.T) {
	t.Run("first", func(t *testing.T) { Serial(t) })
	t.Run("second", func(t *testing.T) { Serial(t) })
}
