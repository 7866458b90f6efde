package main

import (
	crand "crypto/rand"
	"time"
)

const (
	PlayerMaxHP     = 100
	PlayerMaxEnergy = 100
	DefaultGold     = 250
	CatchRadius     = 120.0 // max distance for a successful catch
)

// Player represents a connected player's boat in the world
type Player struct {
	ID           string // session id, unique per live connection
	Name         string
	Username     string // "" for guests
	X, Y         float64
	Angle        float64
	HP           int
	Energy       int // tracked but not consumed by any current rule
	Gold         int
	Boats        []int
	SelectedBoat int
	FishesCaught int
	LastSeen     time.Time
}

// NewPlayer creates a player with default economy at a random position
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:           id,
		Name:         name,
		X:            randFloat() * WorldWidth,
		Y:            WorldHeight - 80,
		HP:           PlayerMaxHP,
		Energy:       PlayerMaxEnergy,
		Gold:         DefaultGold,
		Boats:        []int{StarterBoatID},
		SelectedBoat: StarterBoatID,
		LastSeen:     time.Now(),
	}
}

// Restore overwrites the economy fields from a stored profile.
// The starter boat is re-added if the stored list somehow lost it.
func (p *Player) Restore(prof Profile) {
	p.Gold = prof.Gold
	if len(prof.Boats) > 0 {
		p.Boats = append([]int(nil), prof.Boats...)
	}
	if !p.OwnsBoat(StarterBoatID) {
		p.Boats = append([]int{StarterBoatID}, p.Boats...)
	}
	if len(p.Boats) > MaxOwnedBoats {
		p.Boats = p.Boats[:MaxOwnedBoats]
	}
	p.FishesCaught = prof.FishesCaught
}

// ApplyMove updates position and heading from a client update.
// Non-finite coordinates keep the previous value; finite ones are clamped
// into world bounds.
func (p *Player) ApplyMove(x, y, angle float64) {
	if isFinite(x) {
		p.X = Clamp(x, 0, WorldWidth)
	}
	if isFinite(y) {
		p.Y = Clamp(y, 0, WorldHeight)
	}
	if isFinite(angle) {
		p.Angle = angle
	}
	p.LastSeen = time.Now()
}

// TakeDamage reduces HP, clamped at 0
func (p *Player) TakeDamage(dmg int) {
	p.HP -= dmg
	if p.HP < 0 {
		p.HP = 0
	}
}

// OwnsBoat reports whether the player owns the given boat
func (p *Player) OwnsBoat(id int) bool {
	for _, b := range p.Boats {
		if b == id {
			return true
		}
	}
	return false
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:           p.ID,
		Name:         p.Name,
		X:            p.X,
		Y:            p.Y,
		Angle:        p.Angle,
		HP:           p.HP,
		Energy:       p.Energy,
		Gold:         p.Gold,
		Boats:        p.Boats,
		SelectedBoat: p.SelectedBoat,
		FishesCaught: p.FishesCaught,
	}
}

// randFloat returns a random float64 in [0, 1).
// Simple xorshift; game randomness does not need to be cryptographic.
var randSrc uint64

func randFloat() float64 {
	randSrc ^= randSrc << 13
	randSrc ^= randSrc >> 7
	randSrc ^= randSrc << 17
	if randSrc == 0 {
		randSrc = 1
	}
	return float64(randSrc%1000000) / 1000000.0
}

func init() {
	// Seed from crypto/rand
	b := make([]byte, 8)
	_, _ = crand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}
