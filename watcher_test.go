package bramble

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"

	"github.com/phanxgames/bramble/container"
)

func newBareWatcher(accept func(string) bool) *FSWatcher {
	return &FSWatcher{
		log:     zerolog.Nop(),
		accept:  accept,
		backlog: queue.New(),
		queued:  container.NewTable[struct{}](0),
	}
}

func TestFSWatcher_DedupeAndBudget(t *testing.T) {
	fw := newBareWatcher(nil)
	for _, p := range []string{"a.png", "b.png", "a.png", "c.png", "b.png"} {
		fw.enqueue(p)
	}
	if fw.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", fw.Pending())
	}

	got := fw.take(2)
	if len(got) != 2 || got[0] != "a.png" || got[1] != "b.png" {
		t.Errorf("first take = %v, want [a.png b.png]", got)
	}
	// a.png can queue again once taken
	fw.enqueue("a.png")
	got = fw.take(5)
	if len(got) != 2 || got[0] != "c.png" || got[1] != "a.png" {
		t.Errorf("second take = %v, want [c.png a.png]", got)
	}
	if got := fw.take(5); len(got) != 0 {
		t.Errorf("empty take = %v", got)
	}
}

func TestFSWatcher_Accept(t *testing.T) {
	fw := newBareWatcher(func(p string) bool { return strings.HasSuffix(p, ".room") })
	fw.enqueue("notes.txt")
	fw.enqueue("cellar.room")
	got := fw.take(4)
	if len(got) != 1 || got[0] != "cellar.room" {
		t.Errorf("take = %v, want [cellar.room]", got)
	}
}

func TestFSWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "rooms")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	a := testAssets(t)
	fw, err := NewFSWatcher(dir, a.Handles, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFSWatcher: %v", err)
	}
	defer fw.Close()

	path := filepath.Join(sub, "cellar.room")
	if err := os.WriteFile(path, []byte(testRoomData), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var seen []string
	for time.Now().Before(deadline) && len(seen) == 0 {
		seen = append(seen, fw.Poll(4)...)
		time.Sleep(10 * time.Millisecond)
	}
	if len(seen) != 1 || seen[0] != path {
		t.Errorf("Poll = %v, want [%s]", seen, path)
	}
}

func TestNewFSWatcher_MissingRoot(t *testing.T) {
	if _, err := NewFSWatcher(filepath.Join(t.TempDir(), "missing"), nil, zerolog.Nop()); err == nil {
		t.Error("expected error for missing root")
	}
}
