package counters

import "testing"

func TestCancelBoostCounters(t *testing.T) {
	cs := NewCounters()
	cs.AddCount("-1/-1", 3)
	cs.AddCount("+1/+1", 1)

	if !cs.CancelBoostCounters() {
		t.Fatalf("expected cancellation to occur")
	}
	if got := cs.GetCount("+1/+1"); got != 0 {
		t.Errorf("+1/+1 count = %d, want 0", got)
	}
	if got := cs.GetCount("-1/-1"); got != 2 {
		t.Errorf("-1/-1 count = %d, want 2", got)
	}
	if cs.CancelBoostCounters() {
		t.Errorf("second cancellation pass should find nothing left to cancel")
	}
}

func TestNetPowerToughness(t *testing.T) {
	cs := NewCounters()
	cs.AddCount("-1/-1", 2)
	p, tough := cs.NetPowerToughness()
	if p != -2 || tough != -2 {
		t.Errorf("NetPowerToughness() = (%d,%d), want (-2,-2)", p, tough)
	}
}

func TestAddCountNegativeRemoves(t *testing.T) {
	cs := NewCounters()
	cs.AddCount("+1/+1", 3)
	cs.AddCount("+1/+1", -1)
	if got := cs.GetCount("+1/+1"); got != 2 {
		t.Errorf("GetCount(+1/+1) = %d, want 2", got)
	}
}
