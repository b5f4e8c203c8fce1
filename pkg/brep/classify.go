package brep

import "gonum.org/v1/gonum/spatial/r3"

// Vec3 is a 3-component vector as serialized in face descriptors.
type Vec3 [3]float64

// Bounds2 is a [min, max] pair for one parametric direction.
type Bounds2 [2]float64

// FaceDescriptor describes one face's analytic surface. Which parameter
// fields are populated depends on Type:
//
//	plane:    origin, normal, x_dir
//	cylinder: origin, axis, radius
//	cone:     apex, axis, semi_angle, ref_radius
//	sphere:   center, radius
//	torus:    center, axis, major_radius, minor_radius
//
// Linear quantities are in meters (already multiplied by the length-unit
// factor); angular quantities are radians. UBounds/VBounds follow the same
// rule per direction: lengths scaled, angles not.
type FaceDescriptor struct {
	FaceIndex int    `json:"face_index"`
	Type      string `json:"type"`

	Origin *Vec3 `json:"origin,omitempty"`
	Normal *Vec3 `json:"normal,omitempty"`
	XDir   *Vec3 `json:"x_dir,omitempty"`
	Axis   *Vec3 `json:"axis,omitempty"`
	Apex   *Vec3 `json:"apex,omitempty"`
	Center *Vec3 `json:"center,omitempty"`

	Radius      *float64 `json:"radius,omitempty"`
	SemiAngle   *float64 `json:"semi_angle,omitempty"`
	RefRadius   *float64 `json:"ref_radius,omitempty"`
	MajorRadius *float64 `json:"major_radius,omitempty"`
	MinorRadius *float64 `json:"minor_radius,omitempty"`

	UBounds Bounds2 `json:"u_bounds"`
	VBounds Bounds2 `json:"v_bounds"`
}

// ClassifyFace classifies one face into a descriptor. index is the face's
// position in the shape's traversal order and is recorded verbatim. A nil
// result is a null array slot: the face is degenerate, non-analytic, or
// filtered out by a non-empty allow-list. Linear parameters are scaled by
// unit, angular parameters are not.
func ClassifyFace(face Face, index int, unit float64, allow []string) *FaceDescriptor {
	if face == nil {
		return nil
	}

	surf := face.Surface()
	if surf == nil {
		return nil
	}

	if len(allow) > 0 && !typeAllowed(surf.TypeName(), allow) {
		return nil
	}

	uMin, uMax, vMin, vMax := face.UVBounds()

	d := &FaceDescriptor{
		FaceIndex: index,
		Type:      surf.TypeName(),
	}

	switch s := surf.(type) {
	case Plane:
		d.Origin = scaledVec(s.Origin, unit)
		d.Normal = scaledVec(s.Normal, 1)
		d.XDir = scaledVec(s.XDir, 1)
		// Both parametric directions are lengths in the plane frame.
		d.UBounds = Bounds2{uMin * unit, uMax * unit}
		d.VBounds = Bounds2{vMin * unit, vMax * unit}
	case Cylinder:
		d.Origin = scaledVec(s.Origin, unit)
		d.Axis = scaledVec(s.Axis, 1)
		d.Radius = scaled(s.Radius, unit)
		// u is the angle around the axis, v the height along it.
		d.UBounds = Bounds2{uMin, uMax}
		d.VBounds = Bounds2{vMin * unit, vMax * unit}
	case Cone:
		d.Apex = scaledVec(s.Apex, unit)
		d.Axis = scaledVec(s.Axis, 1)
		d.SemiAngle = scaled(s.SemiAngle, 1)
		d.RefRadius = scaled(s.RefRadius, unit)
		// u is the angle around the axis, v the distance from the apex.
		d.UBounds = Bounds2{uMin, uMax}
		d.VBounds = Bounds2{vMin * unit, vMax * unit}
	case Sphere:
		d.Center = scaledVec(s.Center, unit)
		d.Radius = scaled(s.Radius, unit)
		// u is longitude, v latitude.
		d.UBounds = Bounds2{uMin, uMax}
		d.VBounds = Bounds2{vMin, vMax}
	case Torus:
		d.Center = scaledVec(s.Center, unit)
		d.Axis = scaledVec(s.Axis, 1)
		d.MajorRadius = scaled(s.MajorRadius, unit)
		d.MinorRadius = scaled(s.MinorRadius, unit)
		// u is the angle around the main axis, v the angle around the tube.
		d.UBounds = Bounds2{uMin, uMax}
		d.VBounds = Bounds2{vMin, vMax}
	default:
		return nil
	}

	return d
}

// ClassifyShape walks the shape's faces in traversal order and returns one
// descriptor slot per face. Filtered and non-analytic faces occupy null
// slots so positional indexes never shift.
func ClassifyShape(shape Shape, unit float64, allow []string) []*FaceDescriptor {
	if shape == nil {
		return nil
	}

	faces := shape.Faces()
	out := make([]*FaceDescriptor, 0, len(faces))
	for i, face := range faces {
		out = append(out, ClassifyFace(face, i, unit, allow))
	}
	return out
}

func typeAllowed(name string, allow []string) bool {
	for _, a := range allow {
		if a == name {
			return true
		}
	}
	return false
}

func scaledVec(v r3.Vec, unit float64) *Vec3 {
	return &Vec3{v.X * unit, v.Y * unit, v.Z * unit}
}

func scaled(v, unit float64) *float64 {
	v *= unit
	return &v
}
