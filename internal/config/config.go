// Package config loads generation settings from config files and the
// environment and layers them onto generate.Parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/layertint/internal/generate"
	"github.com/jmylchreest/layertint/internal/palette"
)

// Environment variables read by FromEnv.
const (
	EnvInput   = "LAYERTINT_INPUT"
	EnvOutput  = "LAYERTINT_OUTPUT"
	EnvHarmony = "LAYERTINT_HARMONY"
	EnvSeed    = "LAYERTINT_SEED"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// File holds optional settings. Nil fields are unset and leave the value
// underneath them alone when layered.
type File struct {
	Input       *string  `yaml:"input" toml:"input"`
	Output      *string  `yaml:"output" toml:"output"`
	Count       *int     `yaml:"count" toml:"count" validate:"omitempty,min=1"`
	Basename    *string  `yaml:"basename" toml:"basename"`
	BaseColor   *string  `yaml:"base_color" toml:"base_color"`
	BaseFrom    *string  `yaml:"base_from" toml:"base_from"`
	Harmony     *string  `yaml:"harmony" toml:"harmony"`
	Temperature *float64 `yaml:"temperature" toml:"temperature" validate:"omitempty,gte=0,lte=1"`
	Seed        *int64   `yaml:"seed" toml:"seed"`
	Scale       *int     `yaml:"scale" toml:"scale" validate:"omitempty,min=1,max=64"`
	Overwrite   *bool    `yaml:"overwrite" toml:"overwrite"`
	Manifest    *bool    `yaml:"manifest" toml:"manifest"`
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified config file
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var f *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = parseYAML(path, data)
	case ".toml":
		f, err = parseTOML(path, data)
	default:
		return nil, fmt.Errorf("%w: %s (use .yaml, .yml or .toml)", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// FromEnv reads the LAYERTINT_* variables through lookup, which is
// normally os.LookupEnv. Empty values are ignored.
func FromEnv(lookup func(string) (string, bool)) (*File, error) {
	get := func(key string) *string {
		if v, ok := lookup(key); ok && v != "" {
			return &v
		}
		return nil
	}

	f := &File{
		Input:   get(EnvInput),
		Output:  get(EnvOutput),
		Harmony: get(EnvHarmony),
	}
	if s := get(EnvSeed); s != nil {
		seed, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
		if err != nil {
			return nil, &generate.ValidationError{Field: EnvSeed, Message: fmt.Sprintf("invalid seed %q", *s)}
		}
		f.Seed = &seed
	}
	return f, nil
}

// Merge layers files in order; set fields of later files win.
func Merge(files ...*File) *File {
	out := &File{}
	for _, f := range files {
		if f == nil {
			continue
		}
		set(&out.Input, f.Input)
		set(&out.Output, f.Output)
		set(&out.Count, f.Count)
		set(&out.Basename, f.Basename)
		set(&out.BaseColor, f.BaseColor)
		set(&out.BaseFrom, f.BaseFrom)
		set(&out.Harmony, f.Harmony)
		set(&out.Temperature, f.Temperature)
		set(&out.Seed, f.Seed)
		set(&out.Scale, f.Scale)
		set(&out.Overwrite, f.Overwrite)
		set(&out.Manifest, f.Manifest)
	}
	return out
}

func set[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Apply copies every set field onto p. The harmony name is normalised;
// unknown names become palette.HarmonyNone and are reported through
// unknownHarmony so the caller can warn about them.
func (f *File) Apply(p *generate.Parameters) (unknownHarmony string) {
	if f.Input != nil {
		p.InputDir = *f.Input
	}
	if f.Output != nil {
		p.OutputDir = *f.Output
	}
	if f.Count != nil {
		p.Count = *f.Count
	}
	if f.Basename != nil {
		p.Basename = *f.Basename
	}
	if f.BaseColor != nil {
		p.BaseColor = *f.BaseColor
	}
	if f.Harmony != nil {
		h, ok := palette.ParseHarmony(*f.Harmony)
		if !ok {
			unknownHarmony = *f.Harmony
		}
		p.Harmony = h
	}
	if f.Temperature != nil {
		p.Temperature = *f.Temperature
	}
	if f.Seed != nil {
		seed := *f.Seed
		p.Seed = &seed
	}
	if f.Scale != nil {
		p.Scale = *f.Scale
	}
	if f.Overwrite != nil {
		p.Overwrite = *f.Overwrite
	}
	if f.Manifest != nil {
		p.Manifest = *f.Manifest
	}
	return unknownHarmony
}
