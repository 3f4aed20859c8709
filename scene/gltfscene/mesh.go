package gltfscene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
	"github.com/mogaika/rigconv/scene/memscene"
)

type primitiveData struct {
	base      int
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	tangents  [][4]float32
	joints    [][4]uint16
	weights   [][4]float32
	indices   []uint32
	slot      int
}

func (imp *importer) accessor(attributes map[string]uint32, name string) (*gltf.Accessor, bool) {
	idx, ok := attributes[name]
	if !ok || int(idx) >= len(imp.doc.Accessors) {
		return nil, false
	}
	return imp.doc.Accessors[idx], true
}

func (imp *importer) readPrimitive(p *gltf.Primitive) (*primitiveData, error) {
	doc := imp.doc
	pd := &primitiveData{}

	acr, ok := imp.accessor(p.Attributes, "POSITION")
	if !ok {
		return nil, errors.New("primitive without POSITION")
	}
	var err error
	if pd.positions, err = modeler.ReadPosition(doc, acr, nil); err != nil {
		return nil, errors.Wrap(err, "POSITION")
	}
	if acr, ok := imp.accessor(p.Attributes, "NORMAL"); ok {
		if pd.normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "NORMAL")
		}
	}
	if acr, ok := imp.accessor(p.Attributes, "TEXCOORD_0"); ok {
		if pd.uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "TEXCOORD_0")
		}
	}
	if acr, ok := imp.accessor(p.Attributes, "TANGENT"); ok {
		if pd.tangents, err = modeler.ReadTangent(doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "TANGENT")
		}
	}
	if acr, ok := imp.accessor(p.Attributes, "JOINTS_0"); ok {
		if pd.joints, err = modeler.ReadJoints(doc, acr, [][4]uint16{}); err != nil {
			return nil, errors.Wrap(err, "JOINTS_0")
		}
	}
	if acr, ok := imp.accessor(p.Attributes, "WEIGHTS_0"); ok {
		if pd.weights, err = modeler.ReadWeights(doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "WEIGHTS_0")
		}
	}

	if p.Indices != nil && int(*p.Indices) < len(doc.Accessors) {
		if pd.indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil); err != nil {
			return nil, errors.Wrap(err, "indices")
		}
	} else {
		pd.indices = make([]uint32, len(pd.positions))
		for i := range pd.indices {
			pd.indices[i] = uint32(i)
		}
	}
	return pd, nil
}

// loadMesh flattens every triangle primitive of the node's mesh into a single
// geometry. Channels are stored per control point, materials per polygon.
func (imp *importer) loadMesh(nodeIndex uint32, node *memscene.Node) error {
	doc := imp.doc
	gnode := doc.Nodes[nodeIndex]
	if int(*gnode.Mesh) >= len(doc.Meshes) {
		return errors.Errorf("invalid mesh index %d", *gnode.Mesh)
	}
	mesh := doc.Meshes[*gnode.Mesh]

	slots := make(map[int]int)
	prims := make([]*primitiveData, 0, len(mesh.Primitives))
	points := 0
	for i, p := range mesh.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			logf("mesh %q primitive %d: mode %v skipped", mesh.Name, i, p.Mode)
			continue
		}
		pd, err := imp.readPrimitive(p)
		if err != nil {
			return errors.Wrapf(err, "primitive %d", i)
		}
		pd.base = points
		points += len(pd.positions)

		matIndex := -1
		if p.Material != nil {
			matIndex = int(*p.Material)
		}
		slot, ok := slots[matIndex]
		if !ok {
			slot = len(node.NodeMaterial)
			slots[matIndex] = slot
			node.NodeMaterial = append(node.NodeMaterial, imp.material(matIndex))
		}
		pd.slot = slot
		prims = append(prims, pd)
	}

	geom := &memscene.Geometry{
		Points:  make([]mgl32.Vec3, 0, points),
		Mapping: &scene.MaterialMapping{Mapping: scene.ByPolygon},
	}
	var hasNormals, hasUVs, hasTangents bool
	for _, pd := range prims {
		hasNormals = hasNormals || pd.normals != nil
		hasUVs = hasUVs || pd.uvs != nil
		hasTangents = hasTangents || pd.tangents != nil
	}
	normals := make([]mgl32.Vec3, 0, points)
	uvs := make([]mgl32.Vec3, 0, points)
	tangents := make([]mgl32.Vec3, 0, points)

	for _, pd := range prims {
		for i, p := range pd.positions {
			geom.Points = append(geom.Points, mgl32.Vec3(p))
			var n, uv, t mgl32.Vec3
			if i < len(pd.normals) {
				n = pd.normals[i]
			}
			if i < len(pd.uvs) {
				uv = mgl32.Vec3{pd.uvs[i][0], pd.uvs[i][1], 0}
			}
			if i < len(pd.tangents) {
				t = mgl32.Vec3{pd.tangents[i][0], pd.tangents[i][1], pd.tangents[i][2]}
			}
			normals = append(normals, n)
			uvs = append(uvs, uv)
			tangents = append(tangents, t)
		}
		for i := 0; i+2 < len(pd.indices); i += 3 {
			geom.Polygons = append(geom.Polygons, []int{
				pd.base + int(pd.indices[i]),
				pd.base + int(pd.indices[i+1]),
				pd.base + int(pd.indices[i+2]),
			})
			geom.Mapping.Index = append(geom.Mapping.Index, pd.slot)
		}
	}
	if hasNormals {
		geom.Normals = &scene.LayerElement{Mapping: scene.ByControlPoint, Reference: scene.Direct, Direct: normals}
	}
	if hasUVs {
		geom.UVs = &scene.LayerElement{Mapping: scene.ByControlPoint, Reference: scene.Direct, Direct: uvs}
	}
	if hasTangents {
		geom.Tangents = &scene.LayerElement{Mapping: scene.ByControlPoint, Reference: scene.Direct, Direct: tangents}
	}

	if gnode.Skin != nil {
		skin, err := imp.loadSkin(*gnode.Skin, node.Transform, prims)
		if err != nil {
			return errors.Wrap(err, "skin")
		}
		geom.SkinList = append(geom.SkinList, skin)
	}

	node.Geometry = geom
	return nil
}

func (imp *importer) loadSkin(skinIndex uint32, world mgl32.Mat4, prims []*primitiveData) (*memscene.Skin, error) {
	doc := imp.doc
	if int(skinIndex) >= len(doc.Skins) {
		return nil, errors.Errorf("invalid skin index %d", skinIndex)
	}
	gskin := doc.Skins[skinIndex]

	var ibms [][4][4]float32
	if gskin.InverseBindMatrices != nil && int(*gskin.InverseBindMatrices) < len(doc.Accessors) {
		data, err := modeler.ReadAccessor(doc, doc.Accessors[*gskin.InverseBindMatrices], nil)
		if err != nil {
			return nil, errors.Wrap(err, "inverse bind matrices")
		}
		var ok bool
		if ibms, ok = data.([][4][4]float32); !ok {
			return nil, errors.Errorf("unexpected inverse bind matrices type %T", data)
		}
	}

	skin := &memscene.Skin{ClusterList: make([]*memscene.Cluster, len(gskin.Joints))}
	for k, joint := range gskin.Joints {
		if int(joint) >= len(imp.nodeNames) {
			return nil, errors.Errorf("invalid joint node %d", joint)
		}
		bind := mgl32.Ident4()
		if k < len(ibms) {
			var m mgl32.Mat4
			for col := 0; col < 4; col++ {
				m.SetCol(col, mgl32.Vec4(ibms[k][col]))
			}
			bind = m.Inv()
		}
		skin.ClusterList[k] = &memscene.Cluster{
			Joint: imp.nodeNames[joint],
			Bind:  bind,
			World: world,
		}
	}

	for _, pd := range prims {
		for v := range pd.joints {
			if v >= len(pd.weights) {
				break
			}
			for c := 0; c < 4; c++ {
				k := int(pd.joints[v][c])
				w := pd.weights[v][c]
				if w <= 0 {
					continue
				}
				if k >= len(skin.ClusterList) {
					logf("vertex %d references joint %d of %d", pd.base+v, k, len(skin.ClusterList))
					continue
				}
				cl := skin.ClusterList[k]
				cl.PointIndices = append(cl.PointIndices, pd.base+v)
				cl.PointWeights = append(cl.PointWeights, w)
			}
		}
	}
	return skin, nil
}

// material converts the metallic roughness model to the classic one. Index -1
// stands for primitives without material.
func (imp *importer) material(index int) *memscene.Material {
	doc := imp.doc
	if index < 0 || index >= len(doc.Materials) {
		return &memscene.Material{
			MaterialName: imp.names.NameOr("default"),
			DiffuseColor: mgl32.Vec3{1, 1, 1},
			Shininess:    1,
		}
	}
	gm := doc.Materials[index]
	m := &memscene.Material{
		MaterialName:  imp.names.NameOr(gm.Name),
		EmissiveColor: mgl32.Vec3(gm.EmissiveFactor),
		TextureFiles:  make(map[asset.TextureKind][]string),
	}
	addTexture := func(kind asset.TextureKind, texture uint32) {
		if file := imp.textureFile(texture); file != "" {
			m.TextureFiles[kind] = append(m.TextureFiles[kind], file)
		}
	}

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		color := pbr.BaseColorFactorOrDefault()
		m.DiffuseColor = mgl32.Vec3{color[0], color[1], color[2]}
		m.Transparency = 1 - color[3]
		m.Reflection = pbr.MetallicFactorOrDefault()
		m.Shininess = 1 - pbr.RoughnessFactorOrDefault()
		m.SpecularColor = mgl32.Vec3{m.Reflection, m.Reflection, m.Reflection}
		if pbr.BaseColorTexture != nil {
			addTexture(asset.TextureDiffuse, pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicRoughnessTexture != nil {
			addTexture(asset.TextureMetallic, pbr.MetallicRoughnessTexture.Index)
			addTexture(asset.TextureRoughness, pbr.MetallicRoughnessTexture.Index)
		}
	} else {
		m.DiffuseColor = mgl32.Vec3{1, 1, 1}
		m.Shininess = 1
	}
	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		addTexture(asset.TextureNormal, *gm.NormalTexture.Index)
	}
	if gm.OcclusionTexture != nil && gm.OcclusionTexture.Index != nil {
		addTexture(asset.TextureAmbientOcclusion, *gm.OcclusionTexture.Index)
	}
	if gm.EmissiveTexture != nil {
		addTexture(asset.TextureEmissive, gm.EmissiveTexture.Index)
	}
	return m
}
