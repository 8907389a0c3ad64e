package stream

import "testing"

func TestStreamWalk(t *testing.T) {
	s := New("test", "ab")

	r, ok := s.Current()
	if !ok || r != 'a' {
		t.Fatalf("Current() = %q, %v; want 'a', true", r, ok)
	}

	s2, ok := s.Next()
	if !ok {
		t.Fatal("Next() at offset 0 reported end")
	}
	if r, _ := s2.Current(); r != 'b' {
		t.Errorf("second rune = %q, want 'b'", r)
	}
	if r, _ := s.Current(); r != 'a' {
		t.Errorf("original stream moved: got %q", r)
	}

	end, ok := s2.Next()
	if !ok {
		t.Fatal("Next() at offset 1 reported end")
	}
	if !end.AtEnd() {
		t.Error("expected end of input")
	}
	if _, ok := end.Current(); ok {
		t.Error("Current() at end should report false")
	}
	again, ok := end.Next()
	if ok || again != end {
		t.Errorf("Next() at end = %v, %v; want same stream, false", again, ok)
	}
}

func TestStreamEquality(t *testing.T) {
	s := New("test", "xyz")
	a, _ := s.Next()
	b, _ := s.Next()
	if a != b {
		t.Error("streams at the same offset of the same source should be equal")
	}

	other := New("test", "xyz")
	if s == other {
		t.Error("streams over different sources should differ")
	}
}

func TestStreamPosition(t *testing.T) {
	s := New("f.txt", "ab\ncd\n\ne")

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tt := range tests {
		pos := s.Advance(tt.offset).Position()
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
		if pos.Filename != "f.txt" {
			t.Errorf("offset %d: filename = %q", tt.offset, pos.Filename)
		}
	}

	if got := s.Advance(3).String(); got != "f.txt:2:1" {
		t.Errorf("String() = %q", got)
	}
}

func TestStreamText(t *testing.T) {
	s := New("", "héllo")
	from := s.Advance(1)
	to := s.Advance(4)
	if got := from.Text(to); got != "éll" {
		t.Errorf("Text() = %q, want %q", got, "éll")
	}
	if got := to.Rest(); got != "o" {
		t.Errorf("Rest() = %q", got)
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5 runes", s.Len())
	}
	if !from.Before(to) || to.Before(from) {
		t.Error("Before() ordering wrong")
	}
}

func TestCache(t *testing.T) {
	s := New("", "abc")
	c := s.Source().Cache()
	owner := new(int)

	if _, ok := c.Lookup(owner, s); ok {
		t.Fatal("empty cache reported a hit")
	}
	c.Store(owner, s.Advance(1), "one")
	if _, ok := c.Lookup(owner, s); ok {
		t.Error("lookup at a different offset should miss")
	}
	v, ok := c.Lookup(owner, s.Advance(1))
	if !ok || v != "one" {
		t.Errorf("Lookup() = %v, %v", v, ok)
	}
	c.Delete(owner, s.Advance(1))
	if c.Len() != 0 {
		t.Errorf("Len() = %d after delete", c.Len())
	}
}
