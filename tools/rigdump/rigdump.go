package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/config"
	"github.com/mogaika/rigconv/export"
	"github.com/mogaika/rigconv/export/tagparse"
	"github.com/mogaika/rigconv/utils"
)

func readDocument(path, encoding string) (*tagparse.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cm, err := config.FindEncoding(encoding)
	if err != nil {
		return nil, err
	}
	if cm != nil {
		if data, err = cm.NewDecoder().Bytes(data); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", encoding)
		}
	}
	return tagparse.Parse(data)
}

func dumpFile(path, encoding string, raw, verbose bool) error {
	doc, err := readDocument(path, encoding)
	if err != nil {
		return errors.Wrapf(err, "reading %q", path)
	}
	if raw {
		for _, b := range doc.Blocks {
			fmt.Printf("<%s> line %d, %d lines\n", b.Tag, b.Line, len(b.Lines))
		}
		return nil
	}

	base := filepath.Base(path)
	kind, ok := export.DocumentKind(path)
	switch {
	case ok && kind == export.ArtifactSkeleton:
		sk, err := tagparse.DecodeSkeleton(doc)
		if err != nil {
			return err
		}
		for i, j := range sk.Joints {
			fmt.Printf("%3d %-32s parent %3d pos %v\n", i, j.Name, j.ParentIndex, j.LocalPosition)
		}
		if verbose {
			utils.LogDump(sk)
		}
	case ok && kind == export.ArtifactMesh:
		ms, err := tagparse.DecodeMeshSummary(doc)
		if err != nil {
			return err
		}
		utils.Dump(ms)
	case ok && kind == export.ArtifactAnimation:
		clip, err := tagparse.DecodeAnimation(doc, strings.TrimSuffix(base, filepath.Ext(base)))
		if err != nil {
			return err
		}
		format := clip.Format
		if format == "" {
			format = "local"
		}
		fmt.Printf("%s: %d joints, %d frames at %v fps, %s poses\n",
			clip.Name, clip.JointCount, len(clip.Frames), clip.Framerate, format)
		if verbose {
			utils.LogDump(clip)
		}
	default:
		return errors.Errorf("unknown document type %q", filepath.Ext(path))
	}
	return nil
}

func main() {
	var encoding string
	var raw, verbose bool
	flag.StringVar(&encoding, "encoding", "", "Charmap the documents were written with, see -encodings")
	flag.BoolVar(&raw, "raw", false, "Print tagged blocks without decoding")
	flag.BoolVar(&verbose, "v", false, "Log every decoded value")
	listEncodings := flag.Bool("encodings", false, "List supported encodings")
	flag.Parse()

	if *listEncodings {
		for _, name := range config.ListEncodings() {
			fmt.Println(name)
		}
		return
	}
	if flag.NArg() == 0 {
		flag.PrintDefaults()
		return
	}

	failed := false
	for _, path := range flag.Args() {
		if err := dumpFile(path, encoding, raw, verbose); err != nil {
			log.Printf("[rigdump] %v", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
