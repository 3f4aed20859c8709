package gltfutils

import (
	"bufio"
	"io"
	"os"

	"github.com/qmuntal/gltf"
)

// ExportBinary writes doc as glb. An empty default scene gets every
// parentless node.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{})
		doc.Scene = gltf.Index(0)
	}
	if len(doc.Scenes[0].Nodes) == 0 {
		isChild := make(map[uint32]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				isChild[c] = true
			}
		}
		for iNode := range doc.Nodes {
			if !isChild[uint32(iNode)] {
				doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(iNode))
			}
		}
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

func SaveBinary(path string, doc *gltf.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := ExportBinary(bw, doc); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
