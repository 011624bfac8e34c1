package engine

import "math"

// minSeparation is the distance below which a contact normal is
// undefined. Coincident pairs are skipped rather than resolved; they
// separate naturally once any other force nudges them apart.
const minSeparation = 1e-9

// Dist returns the distance between the centers of p1 and p2.
func Dist(p1, p2 *Particle) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Colliding reports whether the two particles overlap.
func Colliding(p1, p2 *Particle) bool {
	return p1.Radius+p2.Radius > Dist(p1, p2)
}

// Resolve pushes a colliding pair apart by positional correction: each
// particle moves half the penetration depth along the contact normal,
// scaled by friction. No impulse or mass is involved; equal and
// opposite displacement assumes equal mass, and the Verlet history
// turns the shift into a post-collision velocity on the next step.
//
// Coincident pairs (distance below minSeparation) are left untouched.
func Resolve(p1, p2 *Particle, friction float64) {
	deltaX := p1.X - p2.X
	deltaY := p1.Y - p2.Y

	dist := math.Sqrt(deltaX*deltaX + deltaY*deltaY)
	if dist < minSeparation {
		return
	}

	nx := deltaX / dist
	ny := deltaY / dist

	delta := p1.Radius + p2.Radius - dist

	p1.X += 0.5 * delta * nx * friction
	p1.Y += 0.5 * delta * ny * friction
	p2.X -= 0.5 * delta * nx * friction
	p2.Y -= 0.5 * delta * ny * friction
}
