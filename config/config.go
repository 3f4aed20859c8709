// Package config holds the settings of a conversion run.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/rigconv/convert"
	"github.com/mogaika/rigconv/export"
)

type Config struct {
	Input          string   `yaml:"input,omitempty"`
	OutDir         string   `yaml:"out_dir"`
	Scale          float32  `yaml:"scale"`
	Vicon          bool     `yaml:"vicon"`
	Framerate      float32  `yaml:"framerate"`
	FillGaps       bool     `yaml:"fill_gaps"`
	StrictCapacity bool     `yaml:"strict_capacity"`
	Export         []string `yaml:"export"`
	Encoding       string   `yaml:"encoding,omitempty"`
	// "default" or "engine", see export.Naming
	Naming string `yaml:"naming,omitempty"`
}

func Default() *Config {
	return &Config{
		OutDir:    ".",
		Scale:     1,
		Framerate: convert.DefaultFramerate,
		Export:    []string{"skeleton", "mesh", "animation"},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening config")
	}
	defer f.Close()

	c, err := Decode(f)
	return c, errors.Wrapf(err, "config %q", path)
}

func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "parsing yaml")
	}
	return c, c.Validate()
}

func (c *Config) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrapf(err, "encoding yaml")
	}
	return enc.Close()
}

func (c *Config) Validate() error {
	if c.Scale <= 0 {
		return errors.Errorf("scale must be positive, got %v", c.Scale)
	}
	if c.Framerate <= 0 {
		return errors.Errorf("framerate must be positive, got %v", c.Framerate)
	}
	if _, err := c.Artifacts(); err != nil {
		return err
	}
	if _, err := FindEncoding(c.Encoding); err != nil {
		return err
	}
	if _, err := export.ParseNaming(c.Naming); err != nil {
		return err
	}
	return nil
}

func (c *Config) Artifacts() (export.ArtifactSet, error) {
	return export.ParseArtifacts(strings.Join(c.Export, ","))
}

func (c *Config) ConvertOptions(log *convert.Logger) convert.Options {
	return convert.Options{
		Framerate:      c.Framerate,
		Vicon:          c.Vicon,
		FillGaps:       c.FillGaps,
		StrictCapacity: c.StrictCapacity,
		Logger:         log,
	}
}

func (c *Config) ExportConfig() (export.Config, error) {
	artifacts, err := c.Artifacts()
	if err != nil {
		return export.Config{}, err
	}
	cm, err := FindEncoding(c.Encoding)
	if err != nil {
		return export.Config{}, err
	}
	naming, err := export.ParseNaming(c.Naming)
	if err != nil {
		return export.Config{}, err
	}
	return export.Config{
		Scale:     c.Scale,
		Vicon:     c.Vicon,
		Charmap:   cm,
		Artifacts: artifacts,
		Naming:    naming,
	}, nil
}
