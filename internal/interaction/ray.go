package interaction

import (
	"math"
	"sort"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// Vec3 is a point or direction in scene space.
type Vec3 struct {
	X, Y, Z float64
}

// FromPosition converts a node position to a Vec3.
func FromPosition(p model.Position) Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned as is.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Ray is a pointer position projected into the scene.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// Hit is one intersection along a ray. NodeID is empty for hits on scene
// objects that are not nodes.
type Hit struct {
	NodeID   string
	Distance float64
}

// Raycaster finds the interactable objects a ray passes through, nearest
// first.
type Raycaster interface {
	Intersect(r Ray) []Hit
}

// NodeSource supplies the nodes a raycaster may hit.
type NodeSource interface {
	VisibleNodes() []model.Node
}

// DefaultRadius is the hit radius around each node's position.
const DefaultRadius = 1.5

// SphereRaycaster treats every visible node as a sphere around its position.
type SphereRaycaster struct {
	Source NodeSource
	Radius float64
}

// NewSphereRaycaster returns a SphereRaycaster with DefaultRadius.
func NewSphereRaycaster(src NodeSource) *SphereRaycaster {
	return &SphereRaycaster{Source: src, Radius: DefaultRadius}
}

// Intersect returns the nodes whose spheres the ray enters, sorted by
// distance from the ray origin. Ties keep node order.
func (rc *SphereRaycaster) Intersect(r Ray) []Hit {
	dir := r.Direction.Normalize()
	if dir.Len() == 0 {
		return nil
	}
	radius := rc.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}

	var hits []Hit
	for _, n := range rc.Source.VisibleNodes() {
		if d, ok := intersectSphere(r.Origin, dir, FromPosition(n.Position), radius); ok {
			hits = append(hits, Hit{NodeID: n.ID, Distance: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// intersectSphere returns the distance along the unit direction dir to the
// first point where the ray meets the sphere. A ray starting inside the
// sphere hits at distance 0.
func intersectSphere(origin, dir, center Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - c
	if disc < 0 || b > 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}
