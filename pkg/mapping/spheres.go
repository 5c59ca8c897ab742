package mapping

import "github.com/Faultbox/proxymesh/pkg/math"

// BuildSpheres returns one bounding sphere per triangle. The spheres are a
// pruning aid for nearest-triangle queries and are not updated when the
// mesh changes.
func BuildSpheres(points []math.Vec3, triangles []math.Triangle) []math.Sphere {
	spheres := make([]math.Sphere, len(triangles))
	for i, t := range triangles {
		a, b, c := t.Corners(points)
		spheres[i] = math.SphereFromTriangle(a, b, c)
	}
	return spheres
}
