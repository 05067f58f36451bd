package bramble

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func TestCatalog_RegisterAndLookup(t *testing.T) {
	c := NewCatalog[int]("number", 4, zerolog.Nop())
	h, err := c.Register("one", 1)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if h != 0 {
		t.Errorf("first handle = %d, want 0", h)
	}

	got, ok := c.Find("one")
	if !ok || got != 1 {
		t.Errorf("Find(one) = %d, %v; want 1, true", got, ok)
	}
	hh, ok := c.Handle("one")
	if !ok || hh != h {
		t.Errorf("Handle(one) = %d, %v; want %d, true", hh, ok, h)
	}
	if c.Name(h) != "one" {
		t.Errorf("Name(%d) = %q, want one", h, c.Name(h))
	}
	if _, ok := c.Find("two"); ok {
		t.Error("Find(two) should miss")
	}
}

func TestCatalog_ReregisterOverwritesSlot(t *testing.T) {
	c := NewCatalog[string]("word", 4, zerolog.Nop())
	var replaced []string
	c.OnReplace = func(old string) { replaced = append(replaced, old) }

	h1, _ := c.Register("greeting", "hello")
	h2, err := c.Register("greeting", "hi")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if h1 != h2 {
		t.Errorf("handle changed on re-register: %d -> %d", h1, h2)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if v, _ := c.Get(h1); v != "hi" {
		t.Errorf("Get = %q, want hi (last registration wins)", v)
	}
	if len(replaced) != 1 || replaced[0] != "hello" {
		t.Errorf("OnReplace got %v, want [hello]", replaced)
	}
}

func TestCatalog_FullReturnsError(t *testing.T) {
	c := NewCatalog[int]("number", 2, zerolog.Nop())
	c.Register("a", 1)
	c.Register("b", 2)

	h, err := c.Register("c", 3)
	if err == nil {
		t.Fatal("expected error when catalog is full")
	}
	if !eris.Is(err, ErrCatalogFull) {
		t.Errorf("err = %v, want ErrCatalogFull", err)
	}
	if h != NoHandle {
		t.Errorf("handle = %d, want NoHandle", h)
	}
	if _, ok := c.Find("c"); ok {
		t.Error("rejected asset should not be findable")
	}

	// Overwriting an existing name still works when full.
	if _, err := c.Register("a", 10); err != nil {
		t.Errorf("re-register on full catalog: %v", err)
	}
}

func TestCatalog_GetInvalidHandle(t *testing.T) {
	c := NewCatalog[int]("number", 2, zerolog.Nop())
	c.Register("a", 1)
	for _, h := range []Handle{NoHandle, 1, 5} {
		if _, ok := c.Get(h); ok {
			t.Errorf("Get(%d) should miss", h)
		}
		if c.Name(h) != "" {
			t.Errorf("Name(%d) = %q, want empty", h, c.Name(h))
		}
	}
}

func TestCatalog_HandlesAreStable(t *testing.T) {
	c := NewCatalog[int]("number", 64, zerolog.Nop())
	handles := map[string]Handle{}
	for i := 0; i < 40; i++ {
		name := string(rune('A' + i))
		h, err := c.Register(name, i)
		if err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
		handles[name] = h
	}
	for name, want := range handles {
		got, ok := c.Handle(name)
		if !ok || got != want {
			t.Errorf("Handle(%s) = %d, want %d", name, got, want)
		}
	}
}

func TestCatalog_Each(t *testing.T) {
	c := NewCatalog[int]("number", 4, zerolog.Nop())
	c.Register("a", 1)
	c.Register("b", 2)
	c.Register("c", 3)

	sum := 0
	c.Each(func(_ Handle, _ string, v int) bool {
		sum += v
		return true
	})
	if sum != 6 {
		t.Errorf("sum = %d, want 6", sum)
	}

	visited := 0
	c.Each(func(Handle, string, int) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("visited = %d after early stop, want 1", visited)
	}
}

func TestNewCatalog_ZeroCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewCatalog[int]("number", 0, zerolog.Nop())
}
