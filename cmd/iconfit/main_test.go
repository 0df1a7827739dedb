package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/iconfit/internal/patchmatch"
)

// execute runs the CLI with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeScene writes a block-textured scene and an icon cut out of it at r.
func writeScene(t *testing.T, dir string, width, height int, r image.Rectangle) (iconPath, targetPath string) {
	t.Helper()

	rng := rand.New(rand.NewPCG(11, 12))
	scene := image.NewGray(image.Rect(0, 0, width, height))
	for by := 0; by < height; by += 3 {
		for bx := 0; bx < width; bx += 3 {
			v := uint8(rng.IntN(256))
			for y := by; y < min(by+3, height); y++ {
				for x := bx; x < min(bx+3, width); x++ {
					scene.Pix[y*scene.Stride+x] = v
				}
			}
		}
	}
	icon := scene.SubImage(r)

	iconPath = filepath.Join(dir, "icon.png")
	targetPath = filepath.Join(dir, "target.png")
	for path, img := range map[string]image.Image{iconPath: icon, targetPath: scene} {
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	return iconPath, targetPath
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "iconfit "+Version)
	assert.Contains(t, out, "Git commit: "+GitCommit)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	iconPath, targetPath := writeScene(t, dir, 40, 32, image.Rect(6, 4, 22, 20))
	fieldPath := filepath.Join(dir, "field.pmf")
	overlayPath := filepath.Join(dir, "overlay.png")
	flowPath := filepath.Join(dir, "flow.png")

	out, err := execute(t, "locate",
		"--icon", iconPath,
		"--target", targetPath,
		"--seed", "21",
		"--field-out", fieldPath,
		"--overlay-out", overlayPath,
		"--flow-out", flowPath,
	)
	require.NoError(t, err)

	var res struct {
		RunID     string `json:"run_id"`
		Seed      uint64 `json:"seed"`
		Placement struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"placement"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, uint64(21), res.Seed)
	assert.Equal(t, 16, res.Placement.Width)
	assert.Equal(t, 16, res.Placement.Height)

	f, err := os.Open(fieldPath)
	require.NoError(t, err)
	defer f.Close()
	field, err := patchmatch.Load(f)
	require.NoError(t, err)
	assert.Equal(t, 16, field.Width)
	assert.Equal(t, 16, field.Height)

	overlay := decodePNG(t, overlayPath)
	assert.Equal(t, image.Rect(0, 0, 40, 32), overlay.Bounds())
	flow := decodePNG(t, flowPath)
	assert.Equal(t, image.Rect(0, 0, 16, 16), flow.Bounds())
}

func TestLocate_SeedFromEnvironment(t *testing.T) {
	t.Setenv("ICONFIT_SEED", "77")
	dir := t.TempDir()
	iconPath, targetPath := writeScene(t, dir, 24, 24, image.Rect(0, 0, 10, 10))

	out, err := execute(t, "locate", "--icon", iconPath, "--target", targetPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"seed": 77`)

	out, err = execute(t, "locate", "--icon", iconPath, "--target", targetPath, "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, `"seed": 5`)
}

func TestLocate_Config(t *testing.T) {
	dir := t.TempDir()
	iconPath, targetPath := writeScene(t, dir, 24, 24, image.Rect(2, 2, 12, 12))

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("solver:\n  iterations: 1\n  termination_update_rate: 0\n"), 0o644))
	out, err := execute(t, "locate", "--config", good, "--icon", iconPath, "--target", targetPath, "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"rounds": 1`)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("patch:\n  block_size: 0\n"), 0o644))
	_, err = execute(t, "locate", "--config", bad, "--icon", iconPath, "--target", targetPath)
	assert.Error(t, err)
}

func TestLocate_Errors(t *testing.T) {
	dir := t.TempDir()
	iconPath, _ := writeScene(t, dir, 24, 24, image.Rect(0, 0, 10, 10))

	_, err := execute(t, "locate", "--icon", iconPath)
	assert.Error(t, err, "missing --target")

	_, err = execute(t, "locate", "--icon", iconPath, "--target", filepath.Join(dir, "missing.png"))
	assert.ErrorContains(t, err, "target")
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	_, targetPath := writeScene(t, dir, 20, 20, image.Rect(0, 0, 5, 5))

	out, err := execute(t, "describe", "--image", targetPath, "--x", "4", "--y", "9")
	require.NoError(t, err)

	var desc struct {
		X      int       `json:"x"`
		Y      int       `json:"y"`
		Bins   int       `json:"bins"`
		Vector []float32 `json:"vector"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	assert.Equal(t, 4, desc.X)
	assert.Equal(t, 9, desc.Y)
	assert.Equal(t, 9, desc.Bins)
	assert.Len(t, desc.Vector, 9)

	_, err = execute(t, "describe", "--image", targetPath, "--x", "20")
	assert.Error(t, err)
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}
