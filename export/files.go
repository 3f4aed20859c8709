package export

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/export/fbxpreview"
)

var ErrIO = errors.New("output io failure")

const (
	SkeletonExt  = ".skeleton"
	MeshExt      = ".mesh"
	AnimationExt = ".anim"
	FbxExt       = ".fbx"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// FileName makes name safe to use as a single path element.
func FileName(name string) string {
	name = fileNameReplacer.Replace(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}

func SkeletonPath(outDir, name string) string {
	return filepath.Join(outDir, FileName(name)+SkeletonExt)
}

func MeshPath(outDir, name string) string {
	return filepath.Join(outDir, FileName(name)+MeshExt)
}

func AnimationPath(outDir, name, clip string) string {
	return filepath.Join(outDir, FileName(name)+"_"+FileName(clip)+AnimationExt)
}

func FbxPath(outDir, name string) string {
	return filepath.Join(outDir, FileName(name)+FbxExt)
}

// Naming selects the output file names of the three document kinds.
type Naming int

const (
	NamingDefault Naming = iota
	// names the game engine loads: a fixed skeleton.ddb next to <name>.ddm
	// and <name>_<clip>.dda
	NamingEngine
)

const (
	EngineSkeletonFile = "skeleton.ddb"
	EngineSkeletonExt  = ".ddb"
	EngineMeshExt      = ".ddm"
	EngineAnimationExt = ".dda"
)

var namingNames = map[Naming]string{
	NamingDefault: "default",
	NamingEngine:  "engine",
}

func (n Naming) String() string { return namingNames[n] }

func ParseNaming(name string) (Naming, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return NamingDefault, nil
	}
	for n, s := range namingNames {
		if s == name {
			return n, nil
		}
	}
	return 0, errors.Errorf("unknown naming %q", name)
}

func (n Naming) SkeletonPath(outDir, name string) string {
	if n == NamingEngine {
		return filepath.Join(outDir, EngineSkeletonFile)
	}
	return SkeletonPath(outDir, name)
}

func (n Naming) MeshPath(outDir, name string) string {
	if n == NamingEngine {
		return filepath.Join(outDir, FileName(name)+EngineMeshExt)
	}
	return MeshPath(outDir, name)
}

func (n Naming) AnimationPath(outDir, name, clip string) string {
	if n == NamingEngine {
		return filepath.Join(outDir, FileName(name)+"_"+FileName(clip)+EngineAnimationExt)
	}
	return AnimationPath(outDir, name, clip)
}

// DocumentKind guesses the artifact a document path holds from its extension.
func DocumentKind(path string) (Artifact, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case SkeletonExt, EngineSkeletonExt:
		return ArtifactSkeleton, true
	case MeshExt, EngineMeshExt:
		return ArtifactMesh, true
	case AnimationExt, EngineAnimationExt:
		return ArtifactAnimation, true
	case FbxExt:
		return ArtifactFbx, true
	}
	return 0, false
}

// writeFile creates path and hands a buffered writer to write. The file is
// flushed and closed on every return path.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrIO, "creating %q: %v", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return errors.Wrapf(ErrIO, "writing %q: %v", path, err)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(ErrIO, "flushing %q: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(ErrIO, "closing %q: %v", path, err)
	}
	return nil
}

// WriteFiles writes every artifact selected in cfg for a into outDir.
// A failing artifact is logged and skipped, the others are still written.
// It returns the written paths and one error per failed artifact.
func WriteFiles(outDir string, a *asset.Asset, cfg Config) (written []string, failed []error) {
	artifacts := cfg.Artifacts
	if artifacts == nil {
		artifacts = DefaultArtifacts()
	}

	do := func(path string, write func(w io.Writer) error) {
		if err := writeFile(path, write); err != nil {
			log.Printf("[export] %v", err)
			failed = append(failed, err)
			return
		}
		written = append(written, path)
	}

	if artifacts.Has(ArtifactSkeleton) {
		do(cfg.Naming.SkeletonPath(outDir, a.Name), func(w io.Writer) error {
			return WriteSkeleton(w, a.Skeleton, cfg)
		})
	}
	if artifacts.Has(ArtifactMesh) {
		do(cfg.Naming.MeshPath(outDir, a.Name), func(w io.Writer) error {
			return WriteMesh(w, a, cfg)
		})
	}
	if artifacts.Has(ArtifactAnimation) {
		for _, clip := range a.Clips {
			clip := clip
			do(cfg.Naming.AnimationPath(outDir, a.Name, clip.Name), func(w io.Writer) error {
				return WriteAnimation(w, clip, cfg)
			})
		}
	}
	if artifacts.Has(ArtifactFbx) {
		do(FbxPath(outDir, a.Name), func(w io.Writer) error {
			return fbxpreview.NewBuilder(a.Name).AddAsset(a, cfg.Scale).Write(w)
		})
	}

	return written, failed
}
