package sceneio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
	"pathtracer/internal/shape"
)

func uvOf(uv [2]float32) ray.UV {
	return ray.UV{U: numeric.Val(uv[0]), V: numeric.Val(uv[1])}
}

// LoadGltfMesh imports the POSITION/indices of one mesh primitive from
// a .gltf/.glb document into the internal/shape Mesh builder, and
// appends the resulting Triangle/Polygon primitives into pool, using
// the standard gltf.Open/modeler.ReadPosition/modeler.ReadIndices
// sequence. It skips PBR-material, texture, node-hierarchy, and
// tangent-computation steps — a ray-traced Mesh primitive needs only
// geometry, since material comes from the entity referencing this
// shape.
func LoadGltfMesh(path string, meshIndex int, pool *shape.Pool) ([]shape.Id, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, rerr.LoadErrorWrap(err, fmt.Sprintf("gltf open %q", path))
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, rerr.LoadErrorf("gltf %q: mesh index %d out of range (have %d)", path, meshIndex, len(doc.Meshes))
	}

	gm := doc.Meshes[meshIndex]
	var ids []shape.Id
	for pi, prim := range gm.Primitives {
		m, err := loadGltfPrimitive(doc, gm.Name, pi, prim)
		if err != nil {
			return nil, rerr.LoadErrorWrap(err, fmt.Sprintf("gltf %q mesh %d prim %d", path, meshIndex, pi))
		}
		faceIds, err := m.Build(pool)
		if err != nil {
			return nil, rerr.LoadErrorWrap(err, fmt.Sprintf("gltf %q mesh %d prim %d: building faces", path, meshIndex, pi))
		}
		ids = append(ids, faceIds...)
	}
	return ids, nil
}

func loadGltfPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (shape.Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return shape.Mesh{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return shape.Mesh{}, fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]shape.MeshVertex, len(positions))
	for i, p := range positions {
		v := shape.MeshVertex{Position: numeric.Point{X: numeric.Val(p[0]), Y: numeric.Val(p[1]), Z: numeric.Val(p[2])}}
		if i < len(uvs) {
			v.UV = uvOf(uvs[i])
			v.HasUV = true
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return shape.Mesh{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	faces := make([]shape.MeshFace, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		faces = append(faces, shape.MeshFace{Indices: []int{int(indices[i]), int(indices[i+1]), int(indices[i+2])}})
	}

	return shape.Mesh{Name: name, Vertices: verts, Faces: faces}, nil
}
