package ttd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allTrackdirs = []Trackdir{
	TrackdirXNE, TrackdirYSE, TrackdirUpperE, TrackdirLowerE, TrackdirLeftS, TrackdirRightS,
	TrackdirXSW, TrackdirYNW, TrackdirUpperW, TrackdirLowerW, TrackdirLeftN, TrackdirRightN,
}

func TestTrackdirGeometry(t *testing.T) {
	for _, td := range allTrackdirs {
		enter := td.Reverse().ExitDir()
		if enter == td.ExitDir() {
			t.Errorf("%v enters and exits through %v", td, enter)
		}
		if got := TrackdirFrom(td.Track(), enter); got != td {
			t.Errorf("TrackdirFrom(%v, %v) = %v, want %v", td.Track(), enter, got, td)
		}
		if got := TrackBetween(enter, td.ExitDir()); got != td.Track() {
			t.Errorf("TrackBetween(%v, %v) = %v, want %v", enter, td.ExitDir(), got, td.Track())
		}
		if EnterDirTrackdirBits(enter)&td.Bit() == 0 {
			t.Errorf("EnterDirTrackdirBits(%v) lacks %v", enter, td)
		}
		if !EnterDirTrackBits(enter).Has(td.Track()) {
			t.Errorf("EnterDirTrackBits(%v) lacks %v", enter, td.Track())
		}
		if td.Reverse().Reverse() != td {
			t.Errorf("double reverse of %v", td)
		}
	}
}

func TestTrackdirValidity(t *testing.T) {
	for td := Trackdir(0); td < TrackdirEnd; td++ {
		want := td&7 < 6
		if td.IsValid() != want {
			t.Errorf("Trackdir(%d).IsValid() = %v", td, !want)
		}
	}
	if InvalidTrackdir.IsValid() {
		t.Error("InvalidTrackdir is valid")
	}
	if got := TrackdirBitNone.First(); got != InvalidTrackdir {
		t.Errorf("First of no trackdirs = %v", got)
	}
}

func TestEnterDirTrackBits(t *testing.T) {
	tests := []struct {
		d    DiagDirection
		want TrackBits
	}{
		{DiagDirNE, TrackBitX | TrackBitUpper | TrackBitRight},
		{DiagDirSE, TrackBitY | TrackBitLower | TrackBitRight},
		{DiagDirSW, TrackBitX | TrackBitLower | TrackBitLeft},
		{DiagDirNW, TrackBitY | TrackBitUpper | TrackBitLeft},
		{InvalidDiagDir, TrackBitNone},
	}
	for _, tt := range tests {
		if got := EnterDirTrackBits(tt.d); got != tt.want {
			t.Errorf("EnterDirTrackBits(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestTracksOverlap(t *testing.T) {
	tests := []struct {
		b    TrackBits
		want bool
	}{
		{TrackBitNone, false},
		{TrackBitX, false},
		{TrackBitHorz, false},
		{TrackBitVert, false},
		{TrackBitCross, true},
		{TrackBitX | TrackBitUpper, true},
		{TrackBitHorz | TrackBitLeft, true},
		{TrackBitAll, true},
	}
	for _, tt := range tests {
		if got := TracksOverlap(tt.b); got != tt.want {
			t.Errorf("TracksOverlap(%v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestTrackBits(t *testing.T) {
	b := TrackBitX | TrackBitLower | TrackBitRight
	if diff := cmp.Diff([]Track{TrackX, TrackLower, TrackRight}, b.Tracks()); diff != "" {
		t.Errorf("Tracks (-want +got):\n%s", diff)
	}
	if b.Count() != 3 {
		t.Errorf("Count = %d", b.Count())
	}
	if got := TrackBitLeft.Track(); got != TrackLeft {
		t.Errorf("Track = %v", got)
	}
	want := TrackdirXNE.Bit() | TrackdirXSW.Bit() | TrackdirLowerE.Bit() | TrackdirLowerW.Bit() | TrackdirRightS.Bit() | TrackdirRightN.Bit()
	if got := b.Trackdirs(); got != want {
		t.Errorf("Trackdirs = %#x, want %#x", got, want)
	}
}

func TestDiagDirection(t *testing.T) {
	for d := DiagDirNE; d < DiagDirEnd; d++ {
		if d.Reverse().Reverse() != d || d.Reverse() == d {
			t.Errorf("Reverse of %v is %v", d, d.Reverse())
		}
		if d.Axis() != d.Reverse().Axis() {
			t.Errorf("%v and its reverse lie on different axes", d)
		}
	}
	if InvalidDiagDir.Reverse() != InvalidDiagDir {
		t.Error("reversing an invalid direction made it valid")
	}
	if AxisX.Track() != TrackX || AxisY.Track() != TrackY || AxisX.Other() != AxisY {
		t.Error("axis tracks")
	}
}

func TestTrackBetweenSameSide(t *testing.T) {
	if got := TrackBetween(DiagDirNE, DiagDirNE); got != InvalidTrack {
		t.Errorf("TrackBetween(NE, NE) = %v", got)
	}
	if got := TrackBetween(InvalidDiagDir, DiagDirNE); got != InvalidTrack {
		t.Errorf("TrackBetween(invalid, NE) = %v", got)
	}
}
