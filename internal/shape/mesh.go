package shape

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
)

// MeshVertex is one vertex of a mesh being built: position plus an
// optional UV, dropping the tangent/bitangent/color fields a
// rasterizer vertex would carry but this renderer never consumes.
type MeshVertex struct {
	Position numeric.Point
	UV       ray.UV
	HasUV    bool
}

// MeshFace indexes 3 or more vertices into a single polygon face (a
// triangle when len==3); Mesh.Build turns any face with more than 3
// indices into one Polygon, which is hit-tested as a triangle fan.
type MeshFace struct {
	Indices []int
}

// Mesh is a build-time-only aggregate: it constructs a set of
// Triangles and Polygons at build time, and rendering sees only the
// resulting primitives. It is not a Kind and is discarded once Build
// has populated the Pool.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []MeshFace
}

// Build appends one Triangle (len(face.Indices)==3) or Polygon
// (otherwise) per face into pool, returning their Ids in face order.
// A malformed index is a GeometryError.
func (m Mesh) Build(pool *Pool) ([]Id, error) {
	ids := make([]Id, 0, len(m.Faces))
	for faceIdx, face := range m.Faces {
		if len(face.Indices) < 3 {
			return nil, rerr.GeometryErrorf("mesh %q face %d has fewer than 3 vertices", m.Name, faceIdx)
		}
		verts := make([]numeric.Point, len(face.Indices))
		uvs := make([]ray.UV, len(face.Indices))
		hasUV := true
		for i, vi := range face.Indices {
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, rerr.GeometryErrorf("mesh %q face %d references out-of-range vertex %d", m.Name, faceIdx, vi)
			}
			v := m.Vertices[vi]
			verts[i] = v.Position
			uvs[i] = v.UV
			hasUV = hasUV && v.HasUV
		}

		if len(face.Indices) == 3 {
			tri, err := NewTriangle(verts[0], verts[1], verts[2])
			if err != nil {
				return nil, err
			}
			if hasUV {
				tri = tri.WithUV(uvs[0], uvs[1], uvs[2])
			}
			ids = append(ids, pool.AddTriangle(tri))
			continue
		}

		poly, err := NewPolygon(verts)
		if err != nil {
			return nil, err
		}
		if hasUV {
			poly = poly.WithUV(uvs)
		}
		ids = append(ids, pool.AddPolygon(poly))
	}
	return ids, nil
}
