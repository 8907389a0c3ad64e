package lazy

import "testing"

func TestCellComputesOnce(t *testing.T) {
	calls := 0
	c := New(func() int {
		calls++
		return 42
	})

	if c.Forced() {
		t.Fatal("new cell reports forced")
	}
	if calls != 0 {
		t.Fatalf("thunk ran during construction")
	}

	for i := 0; i < 3; i++ {
		if got := c.Value(); got != 42 {
			t.Errorf("Value() = %d, want 42", got)
		}
	}
	if calls != 1 {
		t.Errorf("thunk ran %d times, want 1", calls)
	}
	if c.State() != Computed {
		t.Errorf("State() = %v", c.State())
	}
}

func TestOf(t *testing.T) {
	c := Of("ready")
	if !c.Forced() {
		t.Error("Of() cell should be computed")
	}
	if c.Value() != "ready" {
		t.Errorf("Value() = %q", c.Value())
	}
}

func TestMapDoesNotForce(t *testing.T) {
	calls := 0
	base := New(func() int {
		calls++
		return 2
	})
	mapped := 0
	double := Map(base, func(v int) int {
		mapped++
		return v * 2
	})

	if calls != 0 || mapped != 0 {
		t.Fatalf("Map forced: base=%d mapped=%d", calls, mapped)
	}
	if double.Value() != 4 {
		t.Errorf("Value() = %d", double.Value())
	}
	double.Value()
	base.Value()
	if calls != 1 || mapped != 1 {
		t.Errorf("base ran %d times, map ran %d times; want 1 and 1", calls, mapped)
	}
}

func TestReentrantForcingPanics(t *testing.T) {
	var c *Cell[int]
	c = New(func() int {
		return c.Value() + 1
	})

	defer func() {
		r := recover()
		if r != ErrReentrant {
			t.Errorf("recover() = %v, want ErrReentrant", r)
		}
	}()
	c.Value()
	t.Error("expected panic")
}
