package mesh

import "github.com/Faultbox/proxymesh/pkg/math"

// ComputeNormals returns area-weighted unit vertex normals.
func ComputeNormals(points []math.Vec3, triangles []math.Triangle) []math.Vec3 {
	normals := make([]math.Vec3, len(points))
	UpdateNormals(points, triangles, normals)
	return normals
}

// UpdateNormals recomputes vertex normals into dst, which must be as long
// as points. Each face contributes its unnormalized normal, so larger faces
// weigh more. Vertices without faces get the zero vector.
func UpdateNormals(points []math.Vec3, triangles []math.Triangle, dst []math.Vec3) {
	for i := range dst {
		dst[i] = math.Vec3{}
	}
	for _, t := range triangles {
		n := t.Normal(points)
		dst[t.A] = dst[t.A].Add(n)
		dst[t.B] = dst[t.B].Add(n)
		dst[t.C] = dst[t.C].Add(n)
	}
	for i := range dst {
		dst[i] = dst[i].Normalize()
	}
}

// Normals returns the mesh's vertex normals.
func (m *Mesh) Normals() []math.Vec3 {
	return ComputeNormals(m.Points, m.Triangles)
}
