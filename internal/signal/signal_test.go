package signal

import "testing"

func TestEmitCallsSlotsInOrder(t *testing.T) {
	var s Signal[int]
	var got []int
	s.Connect(func(v int) { got = append(got, v*10) })
	s.Connect(func(v int) { got = append(got, v*100) })

	s.Emit(2)

	if len(got) != 2 || got[0] != 20 || got[1] != 200 {
		t.Fatalf("unexpected calls: %v", got)
	}
}

func TestDisconnectDuringEmitTakesEffectNextTime(t *testing.T) {
	var s Signal[string]
	calls := 0
	var second ID
	s.Connect(func(string) {
		calls++
		s.Disconnect(second)
	})
	second = s.Connect(func(string) { calls++ })

	s.Emit("a")
	if calls != 2 {
		t.Fatalf("expected both slots on first emit, got %d calls", calls)
	}

	s.Emit("b")
	if calls != 3 {
		t.Fatalf("expected only first slot on second emit, got %d calls", calls)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 slot left, got %d", s.Len())
	}
}

func TestConnectNilIsIgnored(t *testing.T) {
	var s Signal[int]
	if id := s.Connect(nil); id != 0 {
		t.Fatalf("expected id 0 for nil slot, got %d", id)
	}
	s.Emit(1)
	if s.Disconnect(42) {
		t.Fatalf("expected disconnect of unknown id to fail")
	}
}
