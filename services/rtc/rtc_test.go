package rtc

import (
	"testing"

	"airbuddy-go/x/timex"
)

func TestNow_UnsyncedTracksLocalClock(t *testing.T) {
	s := NewService()
	if s.Synced() {
		t.Fatal("fresh service claims sync")
	}
	local := timex.NowUnix()
	got := s.Now()
	if got < local || got > local+1 {
		t.Errorf("Now = %d, want ~local %d", got, local)
	}
}

func TestSetFrom_AppliesOffset(t *testing.T) {
	s := NewService()
	target := timex.NowUnix() + 1000
	s.setFrom(target)
	if !s.Synced() {
		t.Fatal("not marked synced")
	}
	got := s.Now()
	if got < target || got > target+1 {
		t.Errorf("Now = %d, want ~%d", got, target)
	}
	if s.Clock()() != s.Now() {
		// Allow a 1s boundary race.
		if d := s.Clock()() - s.Now(); d < -1 || d > 1 {
			t.Error("Clock() diverges from Now")
		}
	}
}
