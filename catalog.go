package main

// StarterBoatID is owned by every player and can never be lost
const StarterBoatID = 0

// MaxOwnedBoats caps a player's boat collection
const MaxOwnedBoats = 3

// Boat represents a purchasable boat in the catalog
type Boat struct {
	ID   int    `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
	Cost int    `json:"cost" msgpack:"cost"`
}

// BoatCatalog is the full list of purchasable boats
var BoatCatalog = []Boat{
	{ID: 0, Name: "Dinghy", Cost: 0},
	{ID: 1, Name: "Skiff", Cost: 300},
	{ID: 2, Name: "Sloop", Cost: 750},
	{ID: 3, Name: "Cutter", Cost: 1500},
	{ID: 4, Name: "Trawler", Cost: 3000},
	{ID: 5, Name: "Clipper", Cost: 6000},
}

// BoatCatalogMap provides O(1) lookup by boat ID
var BoatCatalogMap map[int]Boat

// FishSpecies describes one entry of the spawn table.
// Chance is an unnormalized spawn weight; zero means 1.
type FishSpecies struct {
	ID     int     `json:"id" msgpack:"id"`
	Name   string  `json:"name" msgpack:"name"`
	Reward int     `json:"reward" msgpack:"reward"`
	Chance float64 `json:"chance" msgpack:"chance"`
}

// FishTable is the static species table used by the spawner
var FishTable = []FishSpecies{
	{ID: 0, Name: "Sardine", Reward: 5, Chance: 10},
	{ID: 1, Name: "Herring", Reward: 8, Chance: 10},
	{ID: 2, Name: "Mackerel", Reward: 12, Chance: 8},
	{ID: 3, Name: "Sea Bass", Reward: 20, Chance: 6},
	{ID: 4, Name: "Snapper", Reward: 30, Chance: 5},
	{ID: 5, Name: "Grouper", Reward: 40, Chance: 4},
	{ID: 6, Name: "Tuna", Reward: 70, Chance: 2.5},
	{ID: 7, Name: "Swordfish", Reward: 100, Chance: 1.8},
	{ID: 8, Name: "Marlin", Reward: 250, Chance: 0.6},
	{ID: 9, Name: "Manta Ray", Reward: 120, Chance: 1.5},
	{ID: 10, Name: "Golden Koi", Reward: 400, Chance: 0.5},
	{ID: 11, Name: "Leviathan", Reward: 1000, Chance: 0.2},
}

// ComboEntry maps a triple of owned boats to a named rare-species unlock.
// The table is reference data sent to clients in the welcome payload; no
// server rule consumes it.
type ComboEntry struct {
	Boats   [3]int `json:"boats" msgpack:"boats"`
	Unlocks string `json:"unlocks" msgpack:"unlocks"`
}

// ComboTable lists the boat combinations shown in the client's codex
var ComboTable = []ComboEntry{
	{Boats: [3]int{0, 1, 2}, Unlocks: "Manta Ray"},
	{Boats: [3]int{1, 2, 3}, Unlocks: "Marlin"},
	{Boats: [3]int{2, 3, 4}, Unlocks: "Golden Koi"},
	{Boats: [3]int{3, 4, 5}, Unlocks: "Leviathan"},
}

func init() {
	BoatCatalogMap = make(map[int]Boat, len(BoatCatalog))
	for _, b := range BoatCatalog {
		BoatCatalogMap[b.ID] = b
	}
}

// SpeciesWeight returns the effective spawn weight of a table entry
func SpeciesWeight(s FishSpecies) float64 {
	if s.Chance <= 0 {
		return 1
	}
	return s.Chance
}
