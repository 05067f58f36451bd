package bramble

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

func TestEntities_SpawnGet(t *testing.T) {
	e := NewEntities(4, zerolog.Nop())
	id, err := e.Spawn("rat", 3, 4)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	ent, ok := e.Get(id)
	if !ok {
		t.Fatal("Get failed for live entity")
	}
	if ent.Kind != "rat" || ent.Sprite != "rat" || ent.X != 3 || ent.Y != 4 {
		t.Errorf("entity = %+v", ent)
	}
	if e.Len() != 1 || e.Cap() != 4 {
		t.Errorf("Len/Cap = %d/%d, want 1/4", e.Len(), e.Cap())
	}
}

func TestEntities_Full(t *testing.T) {
	e := NewEntities(2, zerolog.Nop())
	for i := 0; i < 2; i++ {
		if _, err := e.Spawn("rat", 0, 0); err != nil {
			t.Fatalf("Spawn %d: %v", i, err)
		}
	}
	_, err := e.Spawn("rat", 0, 0)
	if !errors.Is(err, ErrEntitiesFull) {
		t.Errorf("err = %v, want ErrEntitiesFull", err)
	}
	if e.Len() != 2 {
		t.Errorf("Len = %d, want 2", e.Len())
	}
}

func TestEntities_DespawnInvalidatesID(t *testing.T) {
	e := NewEntities(1, zerolog.Nop())
	a, _ := e.Spawn("rat", 0, 0)
	if !e.Despawn(a) {
		t.Fatal("Despawn failed")
	}
	if e.Despawn(a) {
		t.Error("second Despawn should fail")
	}
	b, err := e.Spawn("bat", 0, 0)
	if err != nil {
		t.Fatalf("Spawn after despawn: %v", err)
	}
	if a == b {
		t.Error("reused slot should get a new id")
	}
	if _, ok := e.Get(a); ok {
		t.Error("stale id resolved")
	}
	if ent, ok := e.Get(b); !ok || ent.Kind != "bat" {
		t.Error("new id did not resolve")
	}
}

func TestEntities_Each(t *testing.T) {
	e := NewEntities(4, zerolog.Nop())
	a, _ := e.Spawn("a", 0, 0)
	e.Spawn("b", 0, 0)
	e.Spawn("c", 0, 0)
	e.Despawn(a)

	var kinds []string
	e.Each(func(_ EntityID, ent *Entity) bool {
		kinds = append(kinds, ent.Kind)
		return true
	})
	if len(kinds) != 2 {
		t.Errorf("visited %v, want 2 live entities", kinds)
	}

	n := 0
	e.Each(func(EntityID, *Entity) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("Each visited %d after stop, want 1", n)
	}
}

func TestEntities_MoveTo(t *testing.T) {
	e := NewEntities(2, zerolog.Nop())
	id, _ := e.Spawn("rat", 0, 0)
	if !e.MoveTo(id, 10, 20, 1, nil) {
		t.Fatal("MoveTo failed")
	}
	ent, _ := e.Get(id)
	if !ent.Moving() {
		t.Fatal("entity should be moving")
	}

	e.Update(0.5)
	if !approxEqual(ent.X, 5, 0.01) || !approxEqual(ent.Y, 10, 0.01) {
		t.Errorf("halfway = (%v, %v), want (5, 10)", ent.X, ent.Y)
	}
	e.Update(0.6)
	if ent.X != 10 || ent.Y != 20 {
		t.Errorf("end = (%v, %v), want (10, 20)", ent.X, ent.Y)
	}
	if ent.Moving() {
		t.Error("move should be finished")
	}
}

func TestEntities_MoveToEased(t *testing.T) {
	e := NewEntities(1, zerolog.Nop())
	id, _ := e.Spawn("rat", 0, 0)
	e.MoveTo(id, 100, 0, 1, ease.OutQuad)
	e.Update(0.5)
	ent, _ := e.Get(id)
	// out-quad is ahead of linear at the midpoint
	if ent.X <= 50 || ent.X >= 100 {
		t.Errorf("X = %v, want between 50 and 100", ent.X)
	}
}

func TestEntities_MoveToStale(t *testing.T) {
	e := NewEntities(1, zerolog.Nop())
	id, _ := e.Spawn("rat", 0, 0)
	e.Despawn(id)
	if e.MoveTo(id, 1, 1, 1, nil) {
		t.Error("MoveTo on despawned entity should fail")
	}
}

func TestEntities_ClearAndSpawnRoom(t *testing.T) {
	room, err := ParseRoom("cellar.room", []byte(testRoomData))
	if err != nil {
		t.Fatal(err)
	}
	e := NewEntities(4, zerolog.Nop())
	e.Spawn("old", 0, 0)
	e.Clear()
	if e.Len() != 0 {
		t.Fatalf("Len after Clear = %d", e.Len())
	}

	n, err := e.SpawnRoom(room, 16, 8)
	if err != nil || n != 2 {
		t.Fatalf("SpawnRoom = %d, %v; want 2, nil", n, err)
	}
	var chest *Entity
	e.Each(func(_ EntityID, ent *Entity) bool {
		if ent.Kind == "chest" {
			chest = ent
		}
		return true
	})
	if chest == nil || chest.X != 40 || chest.Y != 8 {
		t.Errorf("chest = %+v, want at (40, 8)", chest)
	}
}

func TestEntities_SpawnRoomFull(t *testing.T) {
	room, _ := ParseRoom("cellar.room", []byte(testRoomData))
	e := NewEntities(1, zerolog.Nop())
	n, err := e.SpawnRoom(room, 16, 16)
	if !errors.Is(err, ErrEntitiesFull) {
		t.Errorf("err = %v, want ErrEntitiesFull", err)
	}
	if n != 1 {
		t.Errorf("spawned %d, want 1", n)
	}
}

func TestNewEntities_ZeroCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewEntities(0, zerolog.Nop())
}
