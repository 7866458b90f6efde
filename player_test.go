package main

import (
	"math"
	"testing"
	"time"
)

func TestNewPlayerDefaults(t *testing.T) {
	p := NewPlayer("s1", "Angler")
	if p.Gold != DefaultGold {
		t.Errorf("expected gold %d, got %d", DefaultGold, p.Gold)
	}
	if len(p.Boats) != 1 || p.Boats[0] != StarterBoatID {
		t.Errorf("expected boats [%d], got %v", StarterBoatID, p.Boats)
	}
	if p.SelectedBoat != StarterBoatID {
		t.Errorf("expected selected boat %d, got %d", StarterBoatID, p.SelectedBoat)
	}
	if p.HP != PlayerMaxHP || p.Energy != PlayerMaxEnergy {
		t.Errorf("expected full hp/energy, got %d/%d", p.HP, p.Energy)
	}
	if p.X < 0 || p.X > WorldWidth || p.Y < 0 || p.Y > WorldHeight {
		t.Errorf("spawn position out of bounds: (%f, %f)", p.X, p.Y)
	}
}

func TestPlayerApplyMove(t *testing.T) {
	p := NewPlayer("s1", "Angler")
	p.X, p.Y = 100, 100
	before := p.LastSeen

	p.ApplyMove(500, 300, 2.0)
	if p.X != 500 || p.Y != 300 || p.Angle != 2.0 {
		t.Errorf("move not applied: (%f, %f, %f)", p.X, p.Y, p.Angle)
	}
	if p.LastSeen.Before(before) {
		t.Error("lastSeen should be refreshed")
	}

	// Out-of-range coordinates clamp
	p.ApplyMove(-10, WorldHeight+50, 0)
	if p.X != 0 || p.Y != WorldHeight {
		t.Errorf("expected clamped (0, %f), got (%f, %f)", WorldHeight, p.X, p.Y)
	}

	// Non-finite input keeps the previous coordinate
	p.X, p.Y = 400, 200
	p.ApplyMove(math.NaN(), math.Inf(1), math.NaN())
	if p.X != 400 || p.Y != 200 {
		t.Errorf("NaN/Inf must keep previous position, got (%f, %f)", p.X, p.Y)
	}
}

func TestPlayerTakeDamageFloor(t *testing.T) {
	p := NewPlayer("s1", "Angler")
	p.TakeDamage(25)
	if p.HP != 75 {
		t.Errorf("expected hp 75, got %d", p.HP)
	}
	p.TakeDamage(200)
	if p.HP != 0 {
		t.Errorf("hp must clamp at 0, got %d", p.HP)
	}
}

func TestPlayerRestore(t *testing.T) {
	p := NewPlayer("s1", "Angler")
	p.Restore(Profile{Gold: 1234, Boats: []int{0, 2, 4}, FishesCaught: 17})
	if p.Gold != 1234 || p.FishesCaught != 17 {
		t.Errorf("restore mismatch: gold %d, caught %d", p.Gold, p.FishesCaught)
	}
	if len(p.Boats) != 3 || p.Boats[0] != 0 || p.Boats[1] != 2 || p.Boats[2] != 4 {
		t.Errorf("expected boats [0 2 4], got %v", p.Boats)
	}

	// A stored list without the starter boat gets it re-added
	p2 := NewPlayer("s2", "Angler")
	p2.Restore(Profile{Gold: 10, Boats: []int{2, 3}})
	if !p2.OwnsBoat(StarterBoatID) {
		t.Errorf("starter boat must never be lost, got %v", p2.Boats)
	}
	if len(p2.Boats) > MaxOwnedBoats {
		t.Errorf("boats must never exceed %d, got %v", MaxOwnedBoats, p2.Boats)
	}
}

func TestPlayerLastSeenInitialized(t *testing.T) {
	p := NewPlayer("s1", "Angler")
	if time.Since(p.LastSeen) > time.Minute {
		t.Error("lastSeen should start at creation time")
	}
}
