package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/config"
	"github.com/mogaika/rigconv/convert"
	"github.com/mogaika/rigconv/export"
	"github.com/mogaika/rigconv/scene/csvscene"
	"github.com/mogaika/rigconv/scene/gltfscene"
	"github.com/mogaika/rigconv/scene/memscene"
	"github.com/mogaika/rigconv/utils"
)

var ErrInvalidInput = errors.New("invalid input")

// loadScene picks the reader by extension. framerate is the rate the input
// was captured at, 0 when the format does not carry one.
func loadScene(path string) (sc *memscene.Scene, framerate float32, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		sc, err = gltfscene.Load(path)
	case ".csv":
		var c *csvscene.Capture
		if c, err = csvscene.Load(path, csvscene.DefaultOptions()); err == nil {
			sc, framerate = c.Scene, c.Framerate
		}
	default:
		return nil, 0, errors.Wrapf(ErrInvalidInput, "unsupported extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, 0, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	return sc, framerate, nil
}

func writeDump(path string, a *asset.Asset) error {
	err := os.WriteFile(path, []byte(utils.SDump(a)), 0666)
	return errors.Wrapf(err, "writing dump")
}

func main() {
	var in, out, configPath, exportList, naming string
	var scale, fps float64
	var vicon, gapfill, strict, dump, quiet bool
	flag.StringVar(&in, "in", "", "Input .gltf or .glb scene, or .csv motion capture")
	flag.StringVar(&out, "out", "", "Output directory")
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.Float64Var(&scale, "scale", 1, "Position scale factor")
	flag.BoolVar(&vicon, "vicon", false, "Vicon axis convention")
	flag.Float64Var(&fps, "fps", convert.DefaultFramerate, "Animation sample rate, csv input defaults to its capture rate")
	flag.BoolVar(&gapfill, "gapfill", false, "Carry poses forward into missing frames")
	flag.BoolVar(&strict, "strict", false, "Fail when the skeleton exceeds the joint limit")
	flag.StringVar(&exportList, "export", "", "Comma separated artifacts: skeleton,mesh,animation,fbx or all")
	flag.StringVar(&naming, "naming", "", "Output file names: default or engine (skeleton.ddb, .ddm, .dda)")
	flag.BoolVar(&dump, "dump", false, "Write a dump of the converted asset next to the outputs")
	flag.BoolVar(&quiet, "q", false, "Do not print conversion diagnostics")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}

	// flags given on the command line win over the config file
	fpsSet := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Input = in
		case "out":
			cfg.OutDir = out
		case "scale":
			cfg.Scale = float32(scale)
		case "vicon":
			cfg.Vicon = vicon
		case "fps":
			cfg.Framerate = float32(fps)
			fpsSet = true
		case "naming":
			cfg.Naming = naming
		case "gapfill":
			cfg.FillGaps = gapfill
		case "strict":
			cfg.StrictCapacity = strict
		case "export":
			cfg.Export = strings.Split(exportList, ",")
		}
	})
	if cfg.Input == "" {
		flag.PrintDefaults()
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	exportCfg, err := cfg.ExportConfig()
	if err != nil {
		log.Fatal(err)
	}

	sc, captureRate, err := loadScene(cfg.Input)
	if err != nil {
		log.Fatal(err)
	}
	if captureRate > 0 && !fpsSet {
		cfg.Framerate = captureRate
	}

	var logger *convert.Logger
	if !quiet {
		logger = convert.NewLogger(os.Stderr)
	}
	name := strings.TrimSuffix(filepath.Base(cfg.Input), filepath.Ext(cfg.Input))
	a, report, err := convert.NewConverter(cfg.ConvertOptions(logger)).Convert(name, sc)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(cfg.OutDir, 0777); err != nil {
		log.Fatal(errors.Wrapf(export.ErrIO, "%v", err))
	}
	if dump {
		path := filepath.Join(cfg.OutDir, export.FileName(name)+".dump.txt")
		if err := writeDump(path, a); err != nil {
			log.Fatal(err)
		}
		log.Printf("written %s", path)
	}
	written, failed := export.WriteFiles(cfg.OutDir, a, exportCfg)
	for _, path := range written {
		log.Printf("written %s", path)
	}
	log.Printf("%d warnings, %d files written, %d failed", len(report.Warnings), len(written), len(failed))
	if len(failed) != 0 {
		os.Exit(1)
	}
}
