package main

const (
	FishTTL       = 30000.0 // ms
	FishJitter    = 0.8     // max horizontal drift per tick
	FishEdgeGuard = 10.0    // fish x stays within [FishEdgeGuard, W-FishEdgeGuard]
)

// Fish is a catchable fish spawned by the reward spawner
type Fish struct {
	ID      int
	Species int
	Name    string
	// Reward is copied from the species table at spawn time so a catch
	// stays stable even if the table changes.
	Reward int
	X, Y   float64
	TTL    float64 // ms remaining
}

// NewFish spawns a fish of the given species in the upper band of the world
func NewFish(id int, species FishSpecies) *Fish {
	return &Fish{
		ID:      id,
		Species: species.ID,
		Name:    species.Name,
		Reward:  species.Reward,
		X:       randFloat() * WorldWidth,
		Y:       50 + randFloat()*(WorldHeight*0.6),
		TTL:     FishTTL,
	}
}

// PickSpecies selects one species from the table by weighted random draw.
// Each entry's chance is an unnormalized weight (default 1); the first
// entry is the fallback if floating-point drift prevents a match.
func PickSpecies(table []FishSpecies, draw float64) FishSpecies {
	var total float64
	for _, s := range table {
		total += SpeciesWeight(s)
	}
	r := draw * total
	var sum float64
	for _, s := range table {
		sum += SpeciesWeight(s)
		if r <= sum {
			return s
		}
	}
	return table[0]
}

// Update advances the fish one tick: ttl countdown plus a small random
// horizontal jitter clamped away from the world edges.
func (f *Fish) Update(tickMs float64) {
	f.TTL -= tickMs
	f.X += (randFloat()*2 - 1) * FishJitter
	f.X = Clamp(f.X, FishEdgeGuard, WorldWidth-FishEdgeGuard)
}

// Expired reports whether the fish has outlived its ttl
func (f *Fish) Expired() bool {
	return f.TTL <= 0
}

// ToState converts to protocol state
func (f *Fish) ToState() FishState {
	return FishState{
		ID:      f.ID,
		Species: f.Species,
		Name:    f.Name,
		Reward:  f.Reward,
		X:       f.X,
		Y:       f.Y,
	}
}
