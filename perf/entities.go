package perf

import (
	"github.com/sayantanmandal1/EarnToDie-sub005/lod"
)

// Particle is a pooled short-lived effect object. Its zero value is a
// dead particle; resetParticle restores released instances to it.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Life       float64
	Size       float64
	Visible    bool
}

func newParticle() *Particle {
	return &Particle{Size: 1}
}

func resetParticle(p *Particle) {
	*p = Particle{Size: 1}
}

// Zombie is a pooled game entity tracked by the LOD selector. Applied
// detail is cached on the entity so the renderer reads it without
// consulting the selector.
type Zombie struct {
	Pos    lod.Vec3
	Health float64
	Speed  float64
	Kind   string

	Detail lod.Detail
}

func newZombie() *Zombie {
	return &Zombie{Health: 100, Speed: 1, Detail: fullDetail()}
}

func resetZombie(z *Zombie) {
	*z = Zombie{Health: 100, Speed: 1, Detail: fullDetail()}
}

// Position implements lod.Object.
func (z *Zombie) Position() lod.Vec3 { return z.Pos }

// ApplyLOD implements lod.Applier.
func (z *Zombie) ApplyLOD(l lod.Level) { z.Detail = l.Detail }

// Vehicle is a drivable entity tracked by the LOD selector.
type Vehicle struct {
	Pos      lod.Vec3
	Velocity lod.Vec3
	Fuel     float64

	Detail lod.Detail
}

// Position implements lod.Object.
func (v *Vehicle) Position() lod.Vec3 { return v.Pos }

// ApplyLOD implements lod.Applier.
func (v *Vehicle) ApplyLOD(l lod.Level) { v.Detail = l.Detail }

func fullDetail() lod.Detail {
	return lod.Detail{AnimationRate: 1, ShowSecondary: true, Visible: true, Scale: 1}
}
