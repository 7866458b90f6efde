package main

const (
	BulletSpeed     = 12.0   // units per tick
	BulletTTL       = 3000.0 // ms
	BulletHitRadius = 28.0
	BulletDamage    = 25
	minAimMagnitude = 0.0001 // guard against zero-length aim vectors
)

// Bullet is a projectile fired by a player toward a target point
type Bullet struct {
	ID      int
	OwnerID string
	X, Y    float64
	VX, VY  float64
	TTL     float64 // ms remaining
}

// NewBullet spawns a bullet at the owner's position moving toward (tx, ty)
// at fixed speed. A degenerate aim vector falls back to the magnitude floor
// rather than producing NaN velocity.
func NewBullet(id int, owner *Player, tx, ty float64) *Bullet {
	dx := tx - owner.X
	dy := ty - owner.Y
	mag := Distance(0, 0, dx, dy)
	if mag < minAimMagnitude {
		mag = minAimMagnitude
	}
	return &Bullet{
		ID:      id,
		OwnerID: owner.ID,
		X:       owner.X,
		Y:       owner.Y,
		VX:      dx / mag * BulletSpeed,
		VY:      dy / mag * BulletSpeed,
		TTL:     BulletTTL,
	}
}

// Update integrates position by one tick of velocity and burns ttl
func (b *Bullet) Update(tickMs float64) {
	b.X += b.VX
	b.Y += b.VY
	b.TTL -= tickMs
}

// Hits reports whether the bullet is within hit range of the player.
// The owner is never hit by their own bullet.
func (b *Bullet) Hits(p *Player) bool {
	if p.ID == b.OwnerID {
		return false
	}
	return Distance(b.X, b.Y, p.X, p.Y) < BulletHitRadius
}

// Expired reports whether the bullet has outlived its ttl
func (b *Bullet) Expired() bool {
	return b.TTL <= 0
}

// ToState converts to protocol state
func (b *Bullet) ToState() BulletState {
	return BulletState{
		ID:    b.ID,
		Owner: b.OwnerID,
		X:     b.X,
		Y:     b.Y,
	}
}
