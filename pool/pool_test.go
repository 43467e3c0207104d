package pool

import (
	"errors"
	"testing"
)

type bullet struct {
	TTL int
	X   float64
}

func TestAcquireReusesReleasedSlot(t *testing.T) {
	p := New[bullet](0)

	a, ba, _ := p.Acquire()
	ba.TTL = 10
	b, _, _ := p.Acquire()

	p.Release(a)
	c, bc, err := p.Acquire()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != a {
		t.Errorf("expected slot %d to be reused, got %d", a, c)
	}
	if bc.TTL != 0 {
		t.Errorf("reused slot should be zeroed, TTL=%d", bc.TTL)
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 allocated slots, got %d", p.Len())
	}
	if p.Active() != 2 {
		t.Errorf("expected 2 active, got %d", p.Active())
	}
	_ = b

	st := p.Stats()
	if st.Allocated != 2 || st.Reused != 1 || st.Released != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestBoundedPoolRejectsNewest(t *testing.T) {
	p := New[bullet](2)
	p.Acquire()
	p.Acquire()

	_, v, err := p.Acquire()
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if v != nil {
		t.Error("expected nil value on exhaustion")
	}
	if p.Stats().Dropped != 1 {
		t.Errorf("expected 1 dropped, got %d", p.Stats().Dropped)
	}

	p.Release(0)
	if _, _, err := p.Acquire(); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}
}

func TestSustainedFireBoundedWorkingSet(t *testing.T) {
	p := New[bullet](0)
	for tick := 0; tick < 1000; tick++ {
		_, b, _ := p.Acquire()
		b.TTL = 5
		p.Each(func(i int, v *bullet) {
			v.TTL--
		})
		p.ReleaseIf(func(v *bullet) bool { return v.TTL <= 0 })
	}
	if p.Len() > 6 {
		t.Errorf("pool grew to %d slots under steady fire", p.Len())
	}
}

func TestReleaseInvalidIsNoop(t *testing.T) {
	p := New[bullet](0)
	p.Release(-1)
	p.Release(5)
	idx, _, _ := p.Acquire()
	p.Release(idx)
	p.Release(idx)
	if p.Stats().Released != 1 {
		t.Errorf("double release counted: %d", p.Stats().Released)
	}
	if p.Get(idx) != nil {
		t.Error("Get on released slot should be nil")
	}
}

func TestExportRestorePreservesFreeOrder(t *testing.T) {
	p := New[bullet](0)
	for i := 0; i < 4; i++ {
		_, b, _ := p.Acquire()
		b.X = float64(i)
	}
	p.Release(1)
	p.Release(3)

	q, err := FromState(p.Export())
	if err != nil {
		t.Fatalf("FromState: %v", err)
	}

	i1, _, _ := p.Acquire()
	i2, _, _ := q.Acquire()
	if i1 != i2 {
		t.Errorf("restored pool reused slot %d, original %d", i2, i1)
	}
	if q.Active() != p.Active() {
		t.Errorf("active mismatch %d vs %d", q.Active(), p.Active())
	}
	if q.Get(2).X != 2 {
		t.Errorf("value not restored: %v", q.Get(2))
	}
}

func TestFromStateRejectsMismatch(t *testing.T) {
	_, err := FromState(State[bullet]{Values: make([]bullet, 2), Active: make([]bool, 1), NextFree: make([]int, 2), FreeHead: -1})
	if err == nil {
		t.Error("expected error for mismatched arrays")
	}
}
