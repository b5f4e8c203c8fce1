package brep

import "gonum.org/v1/gonum/spatial/r3"

// Analytic surface type names. These are the values accepted by face-type
// allow-lists and emitted in face descriptors.
const (
	TypePlane    = "plane"
	TypeCylinder = "cylinder"
	TypeCone     = "cone"
	TypeSphere   = "sphere"
	TypeTorus    = "torus"
)

// Surface is an analytic surface underlying a face. The set of
// implementations is closed: plane, cylinder, cone, sphere, torus.
type Surface interface {
	// TypeName returns the surface's type name constant.
	TypeName() string

	surface() // sealed
}

// Plane is an infinite plane through Origin with unit Normal; XDir spans
// the plane's u parametric direction.
type Plane struct {
	Origin r3.Vec
	Normal r3.Vec
	XDir   r3.Vec
}

// Cylinder is a right circular cylinder around the line through Origin
// with unit direction Axis.
type Cylinder struct {
	Origin r3.Vec
	Axis   r3.Vec
	Radius float64
}

// Cone is a right circular cone. SemiAngle is the half-angle at the apex
// in radians; RefRadius is the radius at the cone's reference plane.
type Cone struct {
	Apex      r3.Vec
	Axis      r3.Vec
	SemiAngle float64
	RefRadius float64
}

// Sphere is a full sphere.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// Torus is a torus around Axis: MajorRadius from Center to the tube
// center, MinorRadius of the tube itself.
type Torus struct {
	Center      r3.Vec
	Axis        r3.Vec
	MajorRadius float64
	MinorRadius float64
}

func (Plane) TypeName() string    { return TypePlane }
func (Cylinder) TypeName() string { return TypeCylinder }
func (Cone) TypeName() string     { return TypeCone }
func (Sphere) TypeName() string   { return TypeSphere }
func (Torus) TypeName() string    { return TypeTorus }

func (Plane) surface()    {}
func (Cylinder) surface() {}
func (Cone) surface()     {}
func (Sphere) surface()   {}
func (Torus) surface()    {}
