package battle

// StatusStack is one active status on an entity together with its amount.
type StatusStack struct {
	Kind   StatusKind
	Amount int
}

// statusEntry is a slot in the per-entity status table. Entries exist only
// while their amount is meaningfully non-zero; clearing a slot is the
// responsibility of the status's own callback logic, never automatic.
type statusEntry struct {
	amount int
	active bool
}

// Entity is any health-bearing combatant. Statuses are held in a fixed-size
// array indexed by StatusKind so that iterating the table yields the
// canonical evaluation order structurally; there is no per-entity insertion
// order to sort away.
type Entity struct {
	CurrentHealth int
	MaxHealth     int

	statuses [numStatusKinds]statusEntry
}

// NewEntity creates an entity at full health.
func NewEntity(maxHealth int) Entity {
	return Entity{CurrentHealth: maxHealth, MaxHealth: maxHealth}
}

// ApplyStatus accumulates amount onto the entity's stack of the given kind.
// A running total of zero or less drops the entry entirely.
func (e *Entity) ApplyStatus(kind StatusKind, amount int) {
	if kind < 0 || kind >= numStatusKinds {
		return
	}
	entry := &e.statuses[kind]
	total := amount
	if entry.active {
		total += entry.amount
	}
	if total > 0 {
		entry.amount = total
		entry.active = true
	} else {
		entry.amount = 0
		entry.active = false
	}
}

// ResetStatus removes the entity's stack of the given kind unconditionally.
func (e *Entity) ResetStatus(kind StatusKind) {
	if kind < 0 || kind >= numStatusKinds {
		return
	}
	e.statuses[kind] = statusEntry{}
}

// StatusAmount reports the amount of an active status stack.
func (e *Entity) StatusAmount(kind StatusKind) (int, bool) {
	if kind < 0 || kind >= numStatusKinds {
		return 0, false
	}
	entry := e.statuses[kind]
	if !entry.active {
		return 0, false
	}
	return entry.amount, true
}

// ActiveStatuses returns the entity's active stacks in canonical order.
func (e *Entity) ActiveStatuses() []StatusStack {
	var stacks []StatusStack
	for k := StatusKind(0); k < numStatusKinds; k++ {
		if e.statuses[k].active {
			stacks = append(stacks, StatusStack{Kind: k, Amount: e.statuses[k].amount})
		}
	}
	return stacks
}

// ReduceHealth subtracts amount from current health, clamping at zero, and
// reports whether the entity died.
func (e *Entity) ReduceHealth(amount int) bool {
	e.CurrentHealth -= amount
	if e.CurrentHealth <= 0 {
		e.CurrentHealth = 0
		return true
	}
	return false
}
