package ops

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"shutter/internal/config"
	"shutter/internal/index"
	"shutter/internal/journal"
	"shutter/internal/renderer"
)

// pngBytes renders a small valid PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// stubExecutor simulates the renderer binary: liveness probes answer, the
// report subcommand returns fixed text, and capture invocations write a PNG
// into the requested output directory.
type stubExecutor struct {
	reportText string
	reportErr  error
	captureErr error
	stderr     string
	output     []byte
	outputName string
}

func (s *stubExecutor) Run(_ context.Context, _ string, args ...string) (string, string, error) {
	if len(args) > 0 && args[0] == "--version" {
		return "webshot 1.0", "", nil
	}
	if len(args) > 0 && args[0] == "report" {
		return s.reportText, "", s.reportErr
	}
	if s.captureErr != nil {
		return "", s.stderr, s.captureErr
	}
	outDir := argValue(args, "--outdir")
	name := s.outputName
	if name == "" {
		name = "render-output.png"
	}
	if err := os.WriteFile(filepath.Join(outDir, name), s.output, 0644); err != nil {
		return "", "", err
	}
	return "", "", nil
}

// deadExecutor fails every invocation, including liveness probes.
type deadExecutor struct{}

func (deadExecutor) Run(context.Context, string, ...string) (string, string, error) {
	return "", "", fmt.Errorf("no such file or directory")
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// testDeps wires a full Deps over temp storage and the given executor.
func testDeps(t *testing.T, exec renderer.Executor) *Deps {
	t.Helper()

	baseDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.StorageRoot = filepath.Join(baseDir, "screenshots")

	resolver := renderer.NewResolver([]string{"webshot"}, nil, renderer.WithExecutor(exec))
	inv := renderer.NewInvoker(cfg.StorageRoot, resolver, nil, renderer.WithExecutor(exec))

	j, err := journal.Open(baseDir, nil)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })

	return &Deps{
		Cfg:     cfg,
		Invoker: inv,
		Index:   index.New(cfg.StorageRoot, nil),
		Journal: j,
	}
}
