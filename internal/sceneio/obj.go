package sceneio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
	"pathtracer/internal/shape"
)

// LoadObjMesh parses a Wavefront .obj file's geometry into the
// internal/shape Mesh builder and appends the resulting Triangle/
// Polygon primitives into pool: standard v/vt/f line-scanning and
// fan-triangulation of n-gon faces. It skips the vn normal channel and
// mtllib/usemtl material parsing — a ray-traced Mesh needs only
// position and UV, and materials come from the entity referencing this
// shape, never from the mesh file itself.
func LoadObjMesh(path string, pool *shape.Pool) ([]shape.Id, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rerr.LoadErrorWrap(err, fmt.Sprintf("obj open %q", path))
	}
	defer f.Close()

	var positions []numeric.Point
	var uvs []ray.UV
	var verts []shape.MeshVertex
	var faces []shape.MeshFace
	vertexMap := make(map[string]int)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		switch parts[0] {
		case "v":
			if len(parts) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(parts[1], 64)
			y, _ := strconv.ParseFloat(parts[2], 64)
			z, _ := strconv.ParseFloat(parts[3], 64)
			positions = append(positions, numeric.Point{X: numeric.Val(x), Y: numeric.Val(y), Z: numeric.Val(z)})
		case "vt":
			if len(parts) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(parts[1], 64)
			v, _ := strconv.ParseFloat(parts[2], 64)
			uvs = append(uvs, ray.UV{U: numeric.Val(u), V: numeric.Val(v)})
		case "f":
			faceIdx := make([]int, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				if idx, ok := vertexMap[spec]; ok {
					faceIdx = append(faceIdx, idx)
					continue
				}
				v, err := parseObjFaceVertex(spec, positions, uvs)
				if err != nil {
					return nil, rerr.LoadErrorWrap(err, fmt.Sprintf("obj %q", path))
				}
				newIdx := len(verts)
				verts = append(verts, v)
				vertexMap[spec] = newIdx
				faceIdx = append(faceIdx, newIdx)
			}
			for i := 2; i < len(faceIdx); i++ {
				faces = append(faces, shape.MeshFace{Indices: []int{faceIdx[0], faceIdx[i-1], faceIdx[i]}})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, rerr.LoadErrorWrap(err, fmt.Sprintf("obj %q", path))
	}
	if len(faces) == 0 {
		return nil, rerr.LoadErrorf("obj %q: no faces found", path)
	}

	m := shape.Mesh{Name: path, Vertices: verts, Faces: faces}
	return m.Build(pool)
}

func parseObjFaceVertex(spec string, positions []numeric.Point, uvs []ray.UV) (shape.MeshVertex, error) {
	parts := strings.Split(spec, "/")
	var v shape.MeshVertex

	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return v, fmt.Errorf("malformed face vertex %q", spec)
	}
	if idx < 0 {
		idx = len(positions) + idx + 1
	}
	if idx < 1 || idx > len(positions) {
		return v, fmt.Errorf("face vertex %q references out-of-range position", spec)
	}
	v.Position = positions[idx-1]

	if len(parts) >= 2 && parts[1] != "" {
		uvIdx, err := strconv.Atoi(parts[1])
		if err == nil {
			if uvIdx < 0 {
				uvIdx = len(uvs) + uvIdx + 1
			}
			if uvIdx >= 1 && uvIdx <= len(uvs) {
				v.UV = uvs[uvIdx-1]
				v.HasUV = true
			}
		}
	}
	return v, nil
}
