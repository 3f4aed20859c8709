// Package convert turns a scene.Scene into an asset.Asset.
package convert

import (
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
)

type Options struct {
	Framerate      float32
	Vicon          bool
	FillGaps       bool
	StrictCapacity bool
	Logger         *Logger
}

type Converter struct {
	opts Options
}

func NewConverter(opts Options) *Converter {
	if opts.Framerate <= 0 {
		opts.Framerate = DefaultFramerate
	}
	return &Converter{opts: opts}
}

// Convert runs the skeleton, animation and mesh passes over sc in that order.
// Only a strict capacity violation or an empty scene fail the conversion,
// everything else ends up in the returned report.
func (c *Converter) Convert(name string, sc scene.Scene) (*asset.Asset, *Report, error) {
	report := NewReport(c.opts.Logger)
	root := sc.Root()
	if root == nil {
		return nil, report, errors.Wrapf(ErrEmptyScene, "converting %q", name)
	}

	a := asset.New(name)

	if err := BuildSkeleton(root, 0, a.Skeleton, c.opts.StrictCapacity, report); err != nil {
		return nil, report, errors.Wrapf(err, "converting %q", name)
	}
	report.Logf("skeleton: %d joints", a.Skeleton.Len())

	resampler := NewResampler(c.opts.Framerate, c.opts.Vicon, report)
	for _, stack := range sc.AnimStacks() {
		clip := resampler.ResampleStack(stack, root, a.Skeleton)
		if c.opts.FillGaps {
			FillGaps(clip)
		}
		report.Logf("animation %q: %d frames", clip.Name, len(clip.Frames))
		a.Clips = append(a.Clips, clip)
	}

	meshes := collectMeshNodes(root, nil)
	if len(meshes) == 0 {
		report.Logf("no mesh nodes")
		return a, report, nil
	}
	for _, extra := range meshes[1:] {
		report.Warn(errors.Errorf("mesh node %q ignored, only %q is converted", extra.Name(), meshes[0].Name()))
	}
	c.convertMesh(meshes[0], a, report)

	return a, report, nil
}

func (c *Converter) convertMesh(node scene.Node, a *asset.Asset, report *Report) {
	geom := node.Mesh()

	points := NewControlPoints(geom)
	BindSkin(geom, a.Skeleton, points, report)

	polygons := AssembleVertices(geom, points, a, report)

	sceneMaterials := node.Materials()
	materials := make([]asset.Material, len(sceneMaterials))
	for i, m := range sceneMaterials {
		materials[i] = ConvertMaterial(m)
	}

	AssignMaterials(geom.MaterialMapping(), a.Triangles, polygons, geom.PolygonCount(), len(materials), report)
	a.Materials, a.IndexBuffers = PartitionMaterials(materials, a.Triangles)

	report.Logf("mesh %q: %d vertices, %d triangles, %d of %d materials used",
		node.Name(), len(a.Vertices), len(a.Triangles), len(a.Materials), len(materials))
}

func collectMeshNodes(node scene.Node, out []scene.Node) []scene.Node {
	if node.Attribute() == scene.AttributeMesh && node.Mesh() != nil {
		out = append(out, node)
	}
	for _, child := range node.Children() {
		out = collectMeshNodes(child, out)
	}
	return out
}
