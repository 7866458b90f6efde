package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin   = "join" // enter the world, optionally with a bearer token
	MsgUpdate = "update"
	MsgShoot  = "shoot"
	MsgCatch  = "catchFish"
	MsgBuy    = "buyBoat"
)

// Server -> Client message types
const (
	MsgWelcome   = "welcome"
	MsgState     = "state"
	MsgCaught    = "caught"
	MsgBuyResult = "buyResult"
	MsgError     = "error"
)

// Purchase rejection reasons
const (
	BuyRejectMax   = "max"
	BuyRejectFunds = "funds"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg starts a session. Token is an optional bearer token; Binary
// requests msgpack state frames instead of JSON.
type JoinMsg struct {
	Token  string `json:"token,omitempty"`
	Binary bool   `json:"bin,omitempty"`
}

// UpdateMsg carries a position/heading refresh
type UpdateMsg struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// ShootMsg carries the target point of a shot
type ShootMsg struct {
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
}

// CatchMsg is a catch attempt on a fish by id
type CatchMsg struct {
	FishID int `json:"fid"`
}

// BuyMsg is a purchase attempt on a boat by id
type BuyMsg struct {
	BoatID int `json:"bid"`
}

// WelcomeMsg is sent once when a session becomes active
type WelcomeMsg struct {
	ID          string        `json:"id"`
	BoatCatalog []Boat        `json:"boats"`
	FishTable   []FishSpecies `json:"fish"`
	ComboTable  []ComboEntry  `json:"combos"`
	Identity    *string       `json:"identity"` // username, or null for guests
}

// CaughtMsg acknowledges a successful catch to the catching session only
type CaughtMsg struct {
	Fish FishState `json:"fish"`
}

// BuyResultMsg reports the outcome of a purchase attempt
type BuyResultMsg struct {
	OK     bool   `json:"ok"`
	Boat   *Boat  `json:"boat,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// PlayerState is broadcast per player each tick
type PlayerState struct {
	ID           string  `json:"id" msgpack:"id"`
	Name         string  `json:"n" msgpack:"n"`
	X            float64 `json:"x" msgpack:"x"`
	Y            float64 `json:"y" msgpack:"y"`
	Angle        float64 `json:"a" msgpack:"a"`
	HP           int     `json:"hp" msgpack:"hp"`
	Energy       int     `json:"en" msgpack:"en"`
	Gold         int     `json:"g" msgpack:"g"`
	Boats        []int   `json:"bo" msgpack:"bo"`
	SelectedBoat int     `json:"sb" msgpack:"sb"`
	FishesCaught int     `json:"fc" msgpack:"fc"`
}

// FishState is broadcast per fish
type FishState struct {
	ID      int     `json:"id" msgpack:"id"`
	Species int     `json:"sp" msgpack:"sp"`
	Name    string  `json:"n" msgpack:"n"`
	Reward  int     `json:"rw" msgpack:"rw"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
}

// BulletState is broadcast per bullet
type BulletState struct {
	ID    int     `json:"id" msgpack:"id"`
	Owner string  `json:"o" msgpack:"o"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
}

// WorldState is the full snapshot broadcast every tick
type WorldState struct {
	Players []PlayerState `json:"p" msgpack:"p"`
	Fishes  []FishState   `json:"f" msgpack:"f"`
	Bullets []BulletState `json:"b" msgpack:"b"`
	Tick    uint64        `json:"tick" msgpack:"tick"`
}

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries a signed token back to the client
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
