package export

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

type Artifact int

const (
	ArtifactSkeleton Artifact = iota
	ArtifactMesh
	ArtifactAnimation
	ArtifactFbx
)

var artifactNames = map[Artifact]string{
	ArtifactSkeleton:  "skeleton",
	ArtifactMesh:      "mesh",
	ArtifactAnimation: "animation",
	ArtifactFbx:       "fbx",
}

func (a Artifact) String() string { return artifactNames[a] }

func ArtifactFromString(name string) (Artifact, bool) {
	for a, n := range artifactNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

type ArtifactSet map[Artifact]struct{}

func NewArtifactSet(artifacts ...Artifact) ArtifactSet {
	set := make(ArtifactSet, len(artifacts))
	for _, a := range artifacts {
		set[a] = struct{}{}
	}
	return set
}

// DefaultArtifacts are the three document kinds.
func DefaultArtifacts() ArtifactSet {
	return NewArtifactSet(ArtifactSkeleton, ArtifactMesh, ArtifactAnimation)
}

// ParseArtifacts reads a comma separated artifact list, "all" selects everything.
func ParseArtifacts(list string) (ArtifactSet, error) {
	set := NewArtifactSet()
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "":
			continue
		case "all":
			for a := range artifactNames {
				set[a] = struct{}{}
			}
			continue
		}
		a, ok := ArtifactFromString(name)
		if !ok {
			return nil, errors.Errorf("unknown artifact %q", name)
		}
		set[a] = struct{}{}
	}
	return set, nil
}

func (s ArtifactSet) Has(a Artifact) bool {
	_, ok := s[a]
	return ok
}

func (s ArtifactSet) String() string {
	names := make([]string, 0, len(s))
	for a := range s {
		names = append(names, a.String())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Config is passed to every serializer.
type Config struct {
	// Scale multiplies position valued fields only
	Scale float32
	Vicon bool
	// Charmap encodes names and paths, nil writes them unchanged
	Charmap   *charmap.Charmap
	Artifacts ArtifactSet
	Naming    Naming
}

func DefaultConfig() Config {
	return Config{Scale: 1, Artifacts: DefaultArtifacts()}
}
