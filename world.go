package main

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	WorldWidth  = 1200.0
	WorldHeight = 700.0

	TickMs        = 66.0 // ≈15 Hz
	TickDuration  = 66 * time.Millisecond
	SpawnInterval = 3000 * time.Millisecond

	maxBulletsPerWorld = 2000
)

// Broadcaster is the outbound side of a session, as seen by the world
type Broadcaster interface {
	SendJSON(msg interface{})
	SendRaw(data []byte)
	SendBinary(data []byte)
	WantsBinary() bool
}

// World owns the canonical entity collections and the tick loop.
// Every mutation happens under mu, serialized against the tick pass.
type World struct {
	mu      sync.RWMutex
	players map[string]*Player
	fishes  map[int]*Fish
	bullets map[int]*Bullet
	clients map[string]Broadcaster // player id -> session

	progress  *ProgressSync // nil disables profile flushes
	analytics *Analytics    // nil disables event tracking

	tick         uint64
	nextFishID   int
	nextBulletID int
	running      bool
	stop         chan struct{}
}

// NewWorld creates an empty world. progress and analytics may be nil.
func NewWorld(progress *ProgressSync, analytics *Analytics) *World {
	return &World{
		players:   make(map[string]*Player),
		fishes:    make(map[int]*Fish),
		bullets:   make(map[int]*Bullet),
		clients:   make(map[string]Broadcaster),
		progress:  progress,
		analytics: analytics,
		stop:      make(chan struct{}),
	}
}

// Run drives the two periodic tasks: the physics/broadcast tick and the
// fish spawner. Both funnel into the same mutex-serialized mutation path.
func (w *World) Run() {
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	tick := time.NewTicker(TickDuration)
	spawn := time.NewTicker(SpawnInterval)
	defer tick.Stop()
	defer spawn.Stop()

	for {
		select {
		case <-tick.C:
			w.update()
		case <-spawn.C:
			w.SpawnFish()
		case <-w.stop:
			return
		}
	}
}

// Stop terminates the world loop
func (w *World) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		w.running = false
		close(w.stop)
	}
}

// AddPlayer creates and registers a player. username is "" for guests;
// authenticated players get their economy restored from prof.
func (w *World) AddPlayer(id, name, username string, prof *Profile) *Player {
	p := NewPlayer(id, name)
	p.Username = username
	if prof != nil {
		p.Restore(*prof)
	}
	w.mu.Lock()
	w.players[id] = p
	w.mu.Unlock()
	return p
}

// RemovePlayer tears down a session's player. Authenticated players get a
// final profile flush before removal. Removing an unknown id is a no-op.
func (w *World) RemovePlayer(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return
	}
	w.flushProgress(p)
	delete(w.players, id)
	delete(w.clients, id)
}

// SetClient associates a session with a player for outbound messages
func (w *World) SetClient(playerID string, c Broadcaster) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[playerID] = c
}

// PlayerCount returns the number of live players
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}

// FishCount returns the number of live fish
func (w *World) FishCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.fishes)
}

// BulletCount returns the number of live bullets
func (w *World) BulletCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bullets)
}

// SpawnFish materializes one fish picked from the weighted species table
func (w *World) SpawnFish() *Fish {
	w.mu.Lock()
	defer w.mu.Unlock()
	species := PickSpecies(FishTable, randFloat())
	w.nextFishID++
	f := NewFish(w.nextFishID, species)
	w.fishes[f.ID] = f
	return f
}

// HandleUpdate applies a position/heading refresh from a session
func (w *World) HandleUpdate(playerID string, msg UpdateMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[playerID]
	if !ok {
		return
	}
	p.ApplyMove(msg.X, msg.Y, msg.Angle)
}

// HandleShoot spawns a bullet toward the target point
func (w *World) HandleShoot(playerID string, msg ShootMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[playerID]
	if !ok {
		return
	}
	if !isFinite(msg.TX) || !isFinite(msg.TY) {
		return
	}
	if len(w.bullets) >= maxBulletsPerWorld {
		return
	}
	w.nextBulletID++
	b := NewBullet(w.nextBulletID, p, msg.TX, msg.TY)
	w.bullets[b.ID] = b
}

// HandleCatch attempts to catch a fish. Unknown ids and out-of-range
// attempts are silently ignored; a success credits the reward, removes the
// fish and acknowledges the catching session only.
func (w *World) HandleCatch(playerID string, fishID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[playerID]
	if !ok {
		return
	}
	f, ok := w.fishes[fishID]
	if !ok {
		return
	}
	if Distance(p.X, p.Y, f.X, f.Y) >= CatchRadius {
		return
	}
	p.Gold += f.Reward
	p.FishesCaught++
	delete(w.fishes, fishID)
	if c, ok := w.clients[playerID]; ok {
		c.SendJSON(Envelope{T: MsgCaught, Data: CaughtMsg{Fish: f.ToState()}})
	}
	if w.analytics != nil {
		w.analytics.Track(EvtFishCaught, p.Username, p.ID,
			fmt.Sprintf(`{"species":%d,"reward":%d}`, f.Species, f.Reward))
	}
	w.flushProgress(p)
}

// HandleBuy attempts a boat purchase. Unknown boat ids are ignored;
// business-rule rejections come back as a structured reason.
func (w *World) HandleBuy(playerID string, boatID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[playerID]
	if !ok {
		return
	}
	boat, ok := BoatCatalogMap[boatID]
	if !ok {
		return
	}
	c := w.clients[playerID]
	if len(p.Boats) >= MaxOwnedBoats {
		if c != nil {
			c.SendJSON(Envelope{T: MsgBuyResult, Data: BuyResultMsg{Reason: BuyRejectMax}})
		}
		return
	}
	if p.Gold < boat.Cost {
		if c != nil {
			c.SendJSON(Envelope{T: MsgBuyResult, Data: BuyResultMsg{Reason: BuyRejectFunds}})
		}
		return
	}
	p.Gold -= boat.Cost
	p.Boats = append(p.Boats, boat.ID)
	if c != nil {
		c.SendJSON(Envelope{T: MsgBuyResult, Data: BuyResultMsg{OK: true, Boat: &boat}})
	}
	if w.analytics != nil {
		w.analytics.Track(EvtBoatPurchase, p.Username, p.ID,
			fmt.Sprintf(`{"boat":%d,"cost":%d}`, boat.ID, boat.Cost))
	}
	w.flushProgress(p)
}

// flushProgress enqueues a profile save for authenticated players.
// Callers hold w.mu; the enqueue itself never blocks.
func (w *World) flushProgress(p *Player) {
	if w.progress == nil || p.Username == "" {
		return
	}
	w.progress.Flush(p.Username, Profile{
		Gold:         p.Gold,
		Boats:        append([]int(nil), p.Boats...),
		FishesCaught: p.FishesCaught,
	})
}

// update runs one world tick
func (w *World) update() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tick++

	// Bullets: integrate, then damage every non-owner player in range.
	// A hit zeroes the ttl but the player scan continues, so one bullet can
	// damage several players in the same tick.
	for _, b := range w.bullets {
		b.Update(TickMs)
		for _, p := range w.players {
			if b.Hits(p) {
				p.TakeDamage(BulletDamage)
				b.TTL = 0
			}
		}
	}
	for id, b := range w.bullets {
		if b.Expired() {
			delete(w.bullets, id)
		}
	}

	// Fish: ttl countdown plus horizontal jitter
	for id, f := range w.fishes {
		f.Update(TickMs)
		if f.Expired() {
			delete(w.fishes, id)
		}
	}

	w.broadcastState()
}

// snapshotLocked builds the current full state. Callers must hold w.mu.
func (w *World) snapshotLocked() WorldState {
	state := WorldState{
		Players: make([]PlayerState, 0, len(w.players)),
		Fishes:  make([]FishState, 0, len(w.fishes)),
		Bullets: make([]BulletState, 0, len(w.bullets)),
		Tick:    w.tick,
	}
	for _, p := range w.players {
		state.Players = append(state.Players, p.ToState())
	}
	for _, f := range w.fishes {
		state.Fishes = append(state.Fishes, f.ToState())
	}
	for _, b := range w.bullets {
		state.Bullets = append(state.Bullets, b.ToState())
	}
	return state
}

// Snapshot returns the current full state
func (w *World) Snapshot() WorldState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked()
}

// broadcastState serializes the snapshot once per encoding and delivers it
// to every connected session
func (w *World) broadcastState() {
	if len(w.clients) == 0 {
		return
	}
	state := w.snapshotLocked()

	jsonData, err := json.Marshal(Envelope{T: MsgState, Data: state})
	if err != nil {
		log.Printf("state marshal error: %v", err)
		return
	}
	var binData []byte
	for _, c := range w.clients {
		if c.WantsBinary() {
			binData, err = msgpack.Marshal(state)
			if err != nil {
				log.Printf("state msgpack error: %v", err)
				binData = nil
			}
			break
		}
	}

	for _, c := range w.clients {
		if c.WantsBinary() && binData != nil {
			c.SendBinary(binData)
		} else {
			c.SendRaw(jsonData)
		}
	}
}
