package battle

import "testing"

func TestEntityApplyStatusAccumulates(t *testing.T) {
	e := NewEntity(50)

	e.ApplyStatus(StatusStrength, 2)
	e.ApplyStatus(StatusStrength, 3)

	amount, ok := e.StatusAmount(StatusStrength)
	if !ok || amount != 5 {
		t.Fatalf("expected STRENGTH 5, got %d (active=%v)", amount, ok)
	}
}

func TestEntityApplyStatusDropsAtZero(t *testing.T) {
	e := NewEntity(50)

	e.ApplyStatus(StatusBlock, 5)
	e.ApplyStatus(StatusBlock, -5)

	if _, ok := e.StatusAmount(StatusBlock); ok {
		t.Fatal("expected BLOCK to be removed once its amount reached zero")
	}

	// A net-negative application must not leave a negative stack behind.
	e.ApplyStatus(StatusBlock, 3)
	e.ApplyStatus(StatusBlock, -7)
	if _, ok := e.StatusAmount(StatusBlock); ok {
		t.Fatal("expected BLOCK to be removed on net-negative amount")
	}
}

func TestEntityResetStatus(t *testing.T) {
	e := NewEntity(50)
	e.ApplyStatus(StatusVulnerable, 2)

	e.ResetStatus(StatusVulnerable)

	if _, ok := e.StatusAmount(StatusVulnerable); ok {
		t.Fatal("expected VULNERABLE to be gone after reset")
	}
}

func TestEntityReduceHealthClampsAtZero(t *testing.T) {
	e := NewEntity(10)

	if dead := e.ReduceHealth(4); dead {
		t.Fatal("entity should survive 4 damage at 10 health")
	}
	if e.CurrentHealth != 6 {
		t.Fatalf("expected 6 health, got %d", e.CurrentHealth)
	}
	if dead := e.ReduceHealth(100); !dead {
		t.Fatal("entity should die from overkill damage")
	}
	if e.CurrentHealth != 0 {
		t.Fatalf("expected health clamped at 0, got %d", e.CurrentHealth)
	}
}

func TestEntityActiveStatusesCanonicalOrder(t *testing.T) {
	e := NewEntity(50)

	// Attach in reverse canonical order; iteration order must not care.
	e.ApplyStatus(StatusBlock, 5)
	e.ApplyStatus(StatusStrength, 1)
	e.ApplyStatus(StatusVulnerable, 2)

	stacks := e.ActiveStatuses()
	expected := []StatusKind{StatusVulnerable, StatusStrength, StatusBlock}
	if len(stacks) != len(expected) {
		t.Fatalf("expected %d stacks, got %d", len(expected), len(stacks))
	}
	for i, kind := range expected {
		if stacks[i].Kind != kind {
			t.Fatalf("position %d: expected %s, got %s", i, kind, stacks[i].Kind)
		}
	}
}
