package cli_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jmylchreest/layertint/internal/cli"
)

// writeLayerDir creates a directory with two 2x2 layers.
func writeLayerDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	for name, fill := range map[string]color.NRGBA{
		"01_base.png": {A: 255},
		"02_trim.png": {R: 10, G: 10, B: 10, A: 128},
		"readme.txt":  {},
	} {
		path := filepath.Join(dir, name)
		if strings.HasSuffix(name, ".txt") {
			if err := os.WriteFile(path, []byte("not a layer"), 0o600); err != nil {
				t.Fatalf("Failed to write %s: %v", name, err)
			}
			continue
		}

		img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = fill.R, fill.G, fill.B, fill.A
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("Failed to encode %s: %v", name, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// execute runs a fresh root command and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestGenerateCommand(t *testing.T) {
	in := writeLayerDir(t)
	out := filepath.Join(t.TempDir(), "out")

	_, stderr, err := execute(t, "generate", "-i", in, "-o", out, "-n", "2", "-b", "hero", "--seed", "5", "--manifest")
	if err != nil {
		t.Fatalf("generate failed: %v\n%s", err, stderr)
	}

	got := strings.Join(listDir(t, out), ",")
	if got != "hero_1.png,hero_2.png,hero_palettes.json" {
		t.Errorf("Unexpected outputs: %s", got)
	}

	for _, want := range []string{"Starting...", "Generating image 1 of 2...", "Generating image 2 of 2...", "Success! Generated 2 images."} {
		if !strings.Contains(stderr, want) {
			t.Errorf("Expected progress %q in stderr:\n%s", want, stderr)
		}
	}
}

func TestGenerateCommandQuiet(t *testing.T) {
	in := writeLayerDir(t)
	out := t.TempDir()

	_, stderr, err := execute(t, "generate", "-q", "-i", in, "-o", out, "-n", "1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if stderr != "" {
		t.Errorf("Expected no output with --quiet, got:\n%s", stderr)
	}
}

func TestGenerateCommandErrors(t *testing.T) {
	in := writeLayerDir(t)
	empty := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no layers",
			args:    []string{"generate", "-i", empty, "-o", out},
			wantErr: "no input images found",
		},
		{
			name:    "missing input",
			args:    []string{"generate", "-o", out},
			wantErr: "InputDir: is required",
		},
		{
			name:    "temperature out of range",
			args:    []string{"generate", "-i", in, "-o", out, "-t", "3"},
			wantErr: "Temperature",
		},
		{
			name:    "both base colour sources",
			args:    []string{"generate", "-i", in, "-o", out, "--base-color", "#ffffff", "--base-from", filepath.Join(in, "01_base.png")},
			wantErr: "cannot be used together",
		},
		{
			name:    "unexpected argument",
			args:    []string{"generate", "extra"},
			wantErr: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LAYERTINT_INPUT", "")
			_, stderr, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("Expected an error, got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
			if tt.name == "no layers" && !strings.Contains(stderr, "Error!") {
				t.Errorf("Expected Error! status in stderr:\n%s", stderr)
			}
		})
	}
}

func TestGenerateCommandConfigAndEnv(t *testing.T) {
	in := writeLayerDir(t)
	out := t.TempDir()

	cfgPath := filepath.Join(t.TempDir(), "batch.yaml")
	cfg := "output: " + out + "\ncount: 3\nbasename: cfg\nharmony: mystery\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("LAYERTINT_INPUT", in)
	t.Setenv("LAYERTINT_SEED", "11")

	// The flag overrides the config count; input and seed come from the
	// environment.
	_, stderr, err := execute(t, "generate", "--config", cfgPath, "-n", "1", "--manifest")
	if err != nil {
		t.Fatalf("generate failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "unknown harmony") {
		t.Errorf("Expected unknown harmony warning:\n%s", stderr)
	}

	got := strings.Join(listDir(t, out), ",")
	if got != "cfg_1.png,cfg_palettes.json" {
		t.Fatalf("Unexpected outputs: %s", got)
	}

	data, err := os.ReadFile(filepath.Join(out, "cfg_palettes.json"))
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}
	var manifest struct {
		Harmony string `json:"harmony"`
		Images  []struct {
			Seed int64 `json:"seed"`
		} `json:"images"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("Failed to parse manifest: %v", err)
	}
	if manifest.Harmony != "none" {
		t.Errorf("Expected harmony none, got %q", manifest.Harmony)
	}
	if len(manifest.Images) != 1 || manifest.Images[0].Seed != 11 {
		t.Errorf("Expected one image with seed 11, got %+v", manifest.Images)
	}
}

func TestGenerateCommandBaseFrom(t *testing.T) {
	in := writeLayerDir(t)
	out := t.TempDir()

	ref := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			ref.SetNRGBA(x, y, color.NRGBA{R: 200, G: uint8(x * 8), B: 40, A: 255})
		}
	}
	refPath := filepath.Join(t.TempDir(), "ref.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, ref); err != nil {
		t.Fatalf("Failed to encode reference: %v", err)
	}
	if err := os.WriteFile(refPath, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write reference: %v", err)
	}

	_, stderr, err := execute(t, "generate", "-i", in, "-o", out, "-n", "1", "--base-from", refPath)
	if err != nil {
		t.Fatalf("generate failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "using dominant colour as base") {
		t.Errorf("Expected base colour log line:\n%s", stderr)
	}
}

var hexLine = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestPaletteCommand(t *testing.T) {
	first, _, err := execute(t, "palette", "-n", "4", "--seed", "42", "-H", "triadic")
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(first), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 colours, got %d:\n%s", len(lines), first)
	}
	for _, line := range lines {
		if !hexLine.MatchString(line) {
			t.Errorf("Not a hex colour: %q", line)
		}
	}

	second, _, err := execute(t, "palette", "-n", "4", "--seed", "42", "-H", "triadic")
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if first != second {
		t.Errorf("Seeded palettes differ:\n%s\n%s", first, second)
	}
}

func TestPaletteCommandFormats(t *testing.T) {
	stdout, _, err := execute(t, "palette", "-n", "3", "--base-color", "#3498db", "-f", "json")
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	var parsed struct {
		Count  int `json:"count"`
		Colors []struct {
			Hex string `json:"hex"`
		} `json:"colors"`
	}
	if err := json.Unmarshal([]byte(stdout), &parsed); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, stdout)
	}
	if parsed.Count != 3 || parsed.Colors[0].Hex != "#3498db" {
		t.Errorf("Unexpected palette: %+v", parsed)
	}

	stdout, _, err = execute(t, "palette", "-n", "2", "--base-color", "#ff0000", "-f", "rgb")
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "rgb(255, 0, 0)\n") {
		t.Errorf("Unexpected rgb output:\n%s", stdout)
	}

	stdout, _, err = execute(t, "palette", "-n", "2", "--base-color", "#ff0000", "-f", "table")
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if !strings.Contains(stdout, "Layer") || !strings.Contains(stdout, "hsl(0, 100%, 50%)") {
		t.Errorf("Unexpected table output:\n%s", stdout)
	}

	_, _, err = execute(t, "palette", "-f", "xml")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("Expected unsupported format error, got: %v", err)
	}
}

func TestPaletteCommandOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.txt")
	stdout, _, err := execute(t, "palette", "-n", "2", "--output", path)
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("Expected nothing on stdout, got:\n%s", stdout)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read palette file: %v", err)
	}
	if got := len(strings.Split(strings.TrimSpace(string(data)), "\n")); got != 2 {
		t.Errorf("Expected 2 colours in file, got %d", got)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "layertint version ") {
		t.Errorf("Unexpected version output: %q", stdout)
	}
}
