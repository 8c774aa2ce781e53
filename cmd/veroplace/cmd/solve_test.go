package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func examplePath(name string) string {
	return filepath.Join("..", "..", "..", "examples", name)
}

func TestSolveExample(t *testing.T) {
	out, err := runCLI(t, "solve", examplePath("rc-pair.lisp"))
	if err != nil {
		t.Fatalf("solve failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "layout 1:") {
		t.Errorf("missing layout listing:\n%s", out)
	}
	if !strings.Contains(out, "R1") || !strings.Contains(out, "C1") {
		t.Errorf("missing component placements:\n%s", out)
	}
	if !strings.Contains(out, "1 layout(s) found") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestSolveWritesSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	out, err := runCLI(t, "solve", examplePath("dip-isolate.lisp"), "--svg", path)
	if err != nil {
		t.Fatalf("solve failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "drill") {
		t.Errorf("expected drilled holes in listing:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("SVG not written: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("SVG file has no svg element")
	}
	svgPath = ""
}

func TestSolveSATBackend(t *testing.T) {
	out, err := runCLI(t, "solve", examplePath("jumper-bridge.lisp"), "--backend", "sat")
	if err != nil {
		t.Fatalf("solve --backend sat failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "jumper") {
		t.Errorf("expected a jumper in listing:\n%s", out)
	}
	backend = "dfs"
}

func TestCheckReportsFindings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.lisp")
	source := `
(stripboard :width 4 :height 4)
(resistor "R1" :max-length 2)
(net (pin "R1" 1) (pin "R1" 2))
(net (pin "R1" 2))
`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "check", path); err == nil {
		t.Fatal("expected check to fail for a terminal in two nets")
	}
}

func TestCheckValidExample(t *testing.T) {
	out, err := runCLI(t, "check", examplePath("rc-pair.lisp"))
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 component(s)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}
