package sceneio

import (
	"strconv"

	"pathtracer/internal/material"
	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/rerr"
	"pathtracer/internal/sampling"
	"pathtracer/internal/scenequery"
	"pathtracer/internal/shape"
	"pathtracer/internal/texture"
)

func resolveShapes(doc *Document, pool *shape.Pool) (map[string][]shape.Id, error) {
	byName := make(map[string][]shape.Id, len(doc.Shapes))
	for i, s := range doc.Shapes {
		if s.Name == "" {
			return nil, rerr.LoadErrorField("shapes", "entry without a name at index "+strconv.Itoa(i))
		}
		ids, err := buildShape(s, pool)
		if err != nil {
			return nil, err
		}
		byName[s.Name] = ids
	}
	return byName, nil
}

func buildShape(s ShapeDoc, pool *shape.Pool) ([]shape.Id, error) {
	switch s.Kind {
	case "sphere":
		center, err := vec3ToPoint("shapes["+s.Name+"].center", s.Center)
		if err != nil {
			return nil, err
		}
		sphere, err := shape.NewSphere(center, numeric.Val(s.Radius))
		if err != nil {
			return nil, rerr.LoadErrorWrap(err, "shapes["+s.Name+"]")
		}
		return []shape.Id{pool.AddSphere(sphere)}, nil

	case "plane":
		p, err := vec3ToPoint("shapes["+s.Name+"].point", s.Point)
		if err != nil {
			return nil, err
		}
		nv, err := vec3ToVector("shapes["+s.Name+"].normal", s.Normal)
		if err != nil {
			return nil, err
		}
		n, ok := nv.Normalize()
		if !ok {
			return nil, rerr.LoadErrorField("shapes["+s.Name+"].normal", "must not be zero")
		}
		return []shape.Id{pool.AddPlane(shape.NewPlane(p, n))}, nil

	case "triangle":
		v0, err := vec3ToPoint("shapes["+s.Name+"].v0", s.V0)
		if err != nil {
			return nil, err
		}
		v1, err := vec3ToPoint("shapes["+s.Name+"].v1", s.V1)
		if err != nil {
			return nil, err
		}
		v2, err := vec3ToPoint("shapes["+s.Name+"].v2", s.V2)
		if err != nil {
			return nil, err
		}
		tri, err := shape.NewTriangle(v0, v1, v2)
		if err != nil {
			return nil, rerr.LoadErrorWrap(err, "shapes["+s.Name+"]")
		}
		return []shape.Id{pool.AddTriangle(tri)}, nil

	case "polygon":
		if len(s.Vertices) < 3 {
			return nil, rerr.LoadErrorField("shapes["+s.Name+"].vertices", "needs at least 3 vertices")
		}
		verts := make([]numeric.Point, len(s.Vertices))
		for i, v := range s.Vertices {
			p, err := vec3ToPoint("shapes["+s.Name+"].vertices", v)
			if err != nil {
				return nil, err
			}
			verts[i] = p
		}
		poly, err := shape.NewPolygon(verts)
		if err != nil {
			return nil, rerr.LoadErrorWrap(err, "shapes["+s.Name+"]")
		}
		return []shape.Id{pool.AddPolygon(poly)}, nil

	case "gltf_mesh":
		if s.GltfPath == "" {
			return nil, rerr.LoadErrorField("shapes["+s.Name+"].gltf_path", "required for kind \"gltf_mesh\"")
		}
		return LoadGltfMesh(s.GltfPath, s.GltfMesh, pool)

	case "obj_mesh":
		if s.ObjPath == "" {
			return nil, rerr.LoadErrorField("shapes["+s.Name+"].obj_path", "required for kind \"obj_mesh\"")
		}
		return LoadObjMesh(s.ObjPath, pool)

	default:
		return nil, rerr.LoadErrorField("shapes["+s.Name+"].kind", "unknown shape kind "+s.Kind)
	}
}

func resolveMaterials(doc *Document, pool *material.Pool) (map[string]material.Id, error) {
	byName := make(map[string]material.Id, len(doc.Materials))
	for _, m := range doc.Materials {
		if m.Name == "" {
			return nil, rerr.LoadErrorField("materials", "entry without a name")
		}
		field := "materials[" + m.Name + "]"
		switch m.Kind {
		case "diffuse":
			albedo, err := vec3ToSpectrum(field+".albedo", m.Albedo)
			if err != nil {
				return nil, err
			}
			byName[m.Name] = pool.AddDiffuse(material.NewDiffuse(albedo))
		case "specular":
			albedo, err := vec3ToSpectrum(field+".albedo", m.Albedo)
			if err != nil {
				return nil, err
			}
			byName[m.Name] = pool.AddSpecular(material.NewSpecular(albedo))
		case "refractive":
			if m.IOR <= 0 {
				return nil, rerr.LoadErrorField(field+".ior", "must be positive")
			}
			byName[m.Name] = pool.AddRefractive(material.NewRefractive(numeric.Val(m.IOR)))
		case "emissive":
			radiance, err := vec3ToSpectrum(field+".radiance", m.Radiance)
			if err != nil {
				return nil, err
			}
			byName[m.Name] = pool.AddEmissive(material.NewEmissive(radiance))
		default:
			return nil, rerr.LoadErrorField(field+".kind", "unknown material kind "+m.Kind)
		}
	}
	return byName, nil
}

func resolveMedia(doc *Document, pool *medium.Pool) (map[string]medium.Id, error) {
	byName := make(map[string]medium.Id, len(doc.Media))
	for _, m := range doc.Media {
		if m.Name == "" {
			return nil, rerr.LoadErrorField("media", "entry without a name")
		}
		field := "media[" + m.Name + "]"
		sigmaS, err := vec3ToSpectrum(field+".sigma_s", m.SigmaS)
		if err != nil {
			return nil, err
		}
		sigmaA, err := vec3ToSpectrum(field+".sigma_a", m.SigmaA)
		if err != nil {
			return nil, err
		}
		switch m.Kind {
		case "isotropic":
			byName[m.Name] = pool.AddIsotropic(medium.NewIsotropic(sigmaS, sigmaA))
		case "henyey_greenstein":
			byName[m.Name] = pool.AddHenyeyGreenstein(medium.NewHenyeyGreenstein(numeric.Val(m.G), sigmaS, sigmaA))
		default:
			return nil, rerr.LoadErrorField(field+".kind", "unknown medium kind "+m.Kind)
		}
	}
	return byName, nil
}

func resolveTextures(doc *Document, pool *texture.Pool) error {
	for _, t := range doc.Textures {
		if t.Name == "" {
			return rerr.LoadErrorField("textures", "entry without a name")
		}
		field := "textures[" + t.Name + "]"
		switch t.Kind {
		case "solid":
			c, err := vec3ToSpectrum(field+".color", t.Color)
			if err != nil {
				return err
			}
			pool.AddSolid(texture.NewSolid(c))
		case "checker":
			odd, err := vec3ToSpectrum(field+".odd", t.Odd)
			if err != nil {
				return err
			}
			even, err := vec3ToSpectrum(field+".even", t.Even)
			if err != nil {
				return err
			}
			pool.AddChecker(texture.NewChecker(odd, even, numeric.Val(t.Scale)))
		case "gradient":
			from, err := vec3ToSpectrum(field+".from", t.From)
			if err != nil {
				return err
			}
			to, err := vec3ToSpectrum(field+".to", t.To)
			if err != nil {
				return err
			}
			pool.AddGradient(texture.NewGradient(from, to))
		case "image":
			if t.Path == "" {
				return rerr.LoadErrorField(field+".path", "required for kind \"image\"")
			}
			img, err := texture.LoadImage(t.Path)
			if err != nil {
				return err
			}
			pool.AddImage(img)
		default:
			return rerr.LoadErrorField(field+".kind", "unknown texture kind "+t.Kind)
		}
	}
	return nil
}

// resolveEntities expands each entity reference (possibly multiple
// shape Ids, for a multi-primitive gltf_mesh) into scenequery.Entity
// values, wrapping each with an Instance when a transform is given,
// and registers every Emissive-materialed entity into a MultiLight.
func resolveEntities(doc *Document, shapesByName map[string][]shape.Id, matsByName map[string]material.Id, mats *material.Pool, shapes *shape.Pool) ([]scenequery.Entity, *sampling.MultiLight, error) {
	lights := sampling.NewMultiLight()
	var entities []scenequery.Entity

	for _, e := range doc.Entities {
		ids, ok := shapesByName[e.Shape]
		if !ok {
			return nil, nil, rerr.NotFound("shape", e.Shape)
		}
		matID, ok := matsByName[e.Material]
		if !ok {
			return nil, nil, rerr.NotFound("material", e.Material)
		}
		t, err := resolveTransform(e.Transform)
		if err != nil {
			return nil, nil, err
		}

		for _, protoID := range ids {
			finalID := protoID
			if !t.IsIdentity() {
				finalID = shapes.AddInstance(shape.NewInstance(shapes.Get(protoID), t))
			}
			entities = append(entities, scenequery.Entity{Shape: finalID, Material: matID})

			mat := mats.Get(matID)
			if mat.Kind() != material.KindEmissive {
				continue
			}
			sampleable, ok := shapes.Get(protoID).(shape.Sampleable)
			if !ok {
				continue
			}
			pts := sampling.NewPointSampling(sampleable)
			lightSampler := sampling.NewShapeLightSampling(pts, mat)
			photonSampler := sampling.NewShapePhotonSampling(pts, mat)
			if !t.IsIdentity() {
				lightSampler = sampling.NewInstanceLightSampling(lightSampler, t)
				photonSampler = sampling.NewInstancePhotonSampling(photonSampler, t, sampleable.Area())
			}
			lights.Add(lightSampler)
			lights.AddPhotonSource(photonSampler)
		}
	}
	return entities, lights, nil
}

func resolveVolumes(doc *Document, shapesByName map[string][]shape.Id, mediaByName map[string]medium.Id, shapes *shape.Pool, pool *medium.BoundaryPool) error {
	for _, v := range doc.Volumes {
		ids, ok := shapesByName[v.Shape]
		if !ok {
			return rerr.NotFound("shape", v.Shape)
		}
		medID, ok := mediaByName[v.Medium]
		if !ok {
			return rerr.NotFound("medium", v.Medium)
		}
		t, err := resolveTransform(v.Transform)
		if err != nil {
			return err
		}
		for _, id := range ids {
			boundaryID := id
			if !t.IsIdentity() {
				boundaryID = shapes.AddInstance(shape.NewInstance(shapes.Get(id), t))
			}
			pool.Add(boundaryID, medID)
		}
	}
	return nil
}
