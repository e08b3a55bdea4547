package railtime

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseHHMMRoundTrip(t *testing.T) {
	d := date(2024, 3, 15)
	valid := []string{"00:00", "23:59", "14:30", "09:05"}
	for _, s := range valid {
		rt, err := ParseHHMM(s, d)
		if err != nil {
			t.Fatalf("ParseHHMM(%q) error: %v", s, err)
		}
		if got := rt.String(); got != s {
			t.Errorf("ParseHHMM(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseHHMMRejectsInvalid(t *testing.T) {
	d := date(2024, 3, 15)
	invalid := []string{"1430", "14:3", "25:00", "14:60", "", "1a:30", "14:3a"}
	for _, s := range invalid {
		if _, err := ParseHHMM(s, d); err == nil {
			t.Errorf("ParseHHMM(%q) = nil error, want failure", s)
		}
	}
}

func TestParseHHMMMonotoneWithinDay(t *testing.T) {
	d := date(2024, 3, 15)
	earlier, _ := ParseHHMM("09:00", d)
	later, _ := ParseHHMM("09:01", d)
	if !earlier.Before(later) {
		t.Errorf("expected 09:00 before 09:01")
	}
}

func TestAddSubInverse(t *testing.T) {
	d := date(2024, 3, 15)
	rt, _ := ParseHHMM("14:30", d)
	shifted := rt.Add(45 * time.Minute)
	back := shifted.Add(-45 * time.Minute)
	if !back.Equal(rt) {
		t.Errorf("(t + d) - d != t: got %v want %v", back, rt)
	}
	if shifted.Sub(rt) != 45*time.Minute {
		t.Errorf("Sub inconsistent with Add: got %v", shifted.Sub(rt))
	}
}

func mkSeq(times ...string) ([]string, []bool) {
	vals := make([]string, len(times))
	present := make([]bool, len(times))
	for i, s := range times {
		if s == "" {
			present[i] = false
			continue
		}
		vals[i] = s
		present[i] = true
	}
	return vals, present
}

func TestForwardSequenceSameDay(t *testing.T) {
	d := date(2024, 3, 15)
	times, present := mkSeq("10:00", "10:30", "11:00")
	out, err := ParseSequenceForward(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("output length = %d, want 3", len(out))
	}
	for i, rt := range out {
		if rt == nil {
			t.Fatalf("entry %d unexpectedly absent", i)
		}
		if !rt.Date().Equal(d) {
			t.Errorf("entry %d date = %v, want %v", i, rt.Date(), d)
		}
	}
}

func TestForwardSequencePreservesAbsence(t *testing.T) {
	d := date(2024, 3, 15)
	times, present := mkSeq("10:00", "", "11:00")
	out, err := ParseSequenceForward(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[1] != nil {
		t.Errorf("absent entry became present: %v", out[1])
	}
	if out[0] == nil || out[2] == nil {
		t.Fatalf("present entries lost")
	}
}

func TestForwardSequenceMidnightRollover(t *testing.T) {
	d := date(2024, 3, 15)
	times, present := mkSeq("23:00", "23:30", "00:15", "01:00")
	out, err := ParseSequenceForward(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := d.AddDate(0, 0, 1)
	if !out[0].Date().Equal(d) || !out[1].Date().Equal(d) {
		t.Errorf("first two entries should stay on anchor date")
	}
	if !out[2].Date().Equal(next) || !out[3].Date().Equal(next) {
		t.Errorf("entries after crossing should be on anchor+1")
	}
}

func TestForwardSequenceExactSixHoursNoRollover(t *testing.T) {
	d := date(2024, 3, 15)
	// 16:00 -> 10:00 is exactly a 6h backward gap: must NOT roll over.
	times, present := mkSeq("16:00", "10:00")
	out, err := ParseSequenceForward(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out[1].Date().Equal(d) {
		t.Errorf("exact six-hour gap rolled over, want no rollover")
	}
}

func TestForwardSequenceJustOverSixHoursRollsOver(t *testing.T) {
	d := date(2024, 3, 15)
	times, present := mkSeq("16:01", "10:00")
	out, err := ParseSequenceForward(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := d.AddDate(0, 0, 1)
	if !out[1].Date().Equal(next) {
		t.Errorf("just-over-threshold gap did not roll over")
	}
}

func TestReverseSequenceMidnightRollover(t *testing.T) {
	d := date(2024, 3, 16)
	times, present := mkSeq("00:30", "00:00", "23:30", "23:00")
	out, err := ParseSequenceReverse(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev := d.AddDate(0, 0, -1)
	if !out[0].Date().Equal(d) || !out[1].Date().Equal(d) {
		t.Errorf("first two entries should stay on anchor date")
	}
	if !out[2].Date().Equal(prev) || !out[3].Date().Equal(prev) {
		t.Errorf("entries after crossing backwards should be on anchor-1")
	}
}

func TestReverseSequenceSmallGapNoRollover(t *testing.T) {
	d := date(2024, 3, 15)
	// Going from 10:00 to 08:00 "backwards" is a 2 hour forward gap only.
	times, present := mkSeq("10:00", "08:00")
	out, err := ParseSequenceReverse(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out[1].Date().Equal(d) {
		t.Errorf("small gap triggered rollover")
	}
}

func TestSequenceLengthMatchesInput(t *testing.T) {
	d := date(2024, 3, 15)
	times, present := mkSeq("10:00", "", "", "11:00", "")
	out, err := ParseSequenceForward(times, present, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(times) {
		t.Fatalf("output length %d != input length %d", len(out), len(times))
	}
}
