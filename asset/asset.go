package asset

// Asset is the result of one conversion run.
type Asset struct {
	Name string

	Skeleton     *Skeleton
	Materials    []Material
	Vertices     []Vertex
	Triangles    []Triangle
	IndexBuffers []IndexBuffer
	Clips        []*AnimationClip
}

func New(name string) *Asset {
	return &Asset{
		Name:     name,
		Skeleton: NewSkeleton(),
	}
}
