package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags возвращает флаги к значениям по умолчанию между запусками
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if runCleanup != nil {
		runCleanup()
		runCleanup = nil
	}
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.seq")
	writeFile(t, path, "title: Hello\nA -> B\n")

	out, _, err := execute(t, "", "parse", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	var model struct {
		Title        string `json:"title"`
		Participants []struct {
			Name string `json:"name"`
		} `json:"participants"`
	}
	if err := json.Unmarshal([]byte(out), &model); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if model.Title != "Hello" || len(model.Participants) != 2 {
		t.Fatalf("unexpected model %+v", model)
	}
}

func TestParseCommandStdinFailure(t *testing.T) {
	out, errOut, err := execute(t, "A -> B\nB C\n", "parse", "-")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if out != "" {
		t.Fatalf("no model expected on failure, got %q", out)
	}
	if !strings.Contains(errOut, "<stdin>:2:3: ERROR SYN2001") {
		t.Fatalf("diagnostic missing:\n%s", errOut)
	}
}

func TestLayoutCommand(t *testing.T) {
	out, _, err := execute(t, "A -> B\n", "layout", "--no-cache", "--measurer", "fixed", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "size: ") || !strings.Contains(out, "lifelines: 2") {
		t.Fatalf("unexpected layout output:\n%s", out)
	}
}

func TestRenderCommandFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.seq")
	dst := filepath.Join(dir, "a.svg")
	writeFile(t, src, "A -> B\n  label: hi\n")

	_, errOut, err := execute(t, "", "render", "--no-cache", "-o", dst, src)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) || !strings.Contains(errOut, "wrote "+dst) {
		t.Fatalf("unexpected result, stderr:\n%s", errOut)
	}

	out, _, err := execute(t, "A -> A\n", "render", "--no-cache", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<?xml") {
		t.Fatalf("expected SVG on stdout, got %q", out)
	}
}

func TestRenderCommandDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.seq"), "A -> B\n")
	writeFile(t, filepath.Join(dir, "b.seq"), "A -> \n")
	outDir := filepath.Join(dir, "svg")

	_, errOut, err := execute(t, "", "render", "--ui", "off", "--jobs", "2", "-o", outDir, dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported for b.seq", err)
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "a.svg")); statErr != nil {
		t.Fatalf("a.svg not written: %v", statErr)
	}
	if !strings.Contains(errOut, "rendered 1 of 2 diagram(s)") {
		t.Fatalf("summary missing:\n%s", errOut)
	}

	// второй прогон берёт раскладку из кэша
	writeFile(t, filepath.Join(dir, "b.seq"), "B -> A\n")
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	resetFlags(rootCmd)
	var first bytes.Buffer
	rootCmd.SetErr(&first)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"render", "--ui", "off", "-o", outDir, dir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	resetFlags(rootCmd)
	var second bytes.Buffer
	rootCmd.SetErr(&second)
	rootCmd.SetArgs([]string{"render", "--ui", "off", "-o", outDir, dir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(second.String(), "(2 from cache)") {
		t.Fatalf("expected cache hits:\n%s", second.String())
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	out, _, err := execute(t, "", "init", "--style", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"seqdiag.toml", "style.toml"} {
		if !strings.Contains(out, filepath.Join(dir, name)) {
			t.Errorf("%s not reported:\n%s", name, out)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "seqdiag.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `style = "style.toml"`) {
		t.Fatalf("style not referenced:\n%s", data)
	}

	if _, _, err := execute(t, "", "init", dir); err == nil {
		t.Fatal("second init must refuse to overwrite")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["tool"] != "seqdiag" || payload["version"] == "" || payload["git_commit"] != "unknown" {
		t.Fatalf("unexpected payload %v", payload)
	}

	if _, _, err := execute(t, "", "version", "--format", "xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestEnvOverridesFlags(t *testing.T) {
	t.Setenv("SEQDIAG_TRACE_LEVEL", "loud")
	_, _, err := execute(t, "A -> B\n", "parse", "-")
	if err == nil || !strings.Contains(err.Error(), "invalid trace level") {
		t.Fatalf("env must reach viper, got %v", err)
	}
}

func TestReadModes(t *testing.T) {
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error for ui mode")
	}
	if m, err := readUIMode(" ON "); err != nil || m != uiModeOn {
		t.Errorf("readUIMode = %q, %v", m, err)
	}
	if !shouldUseTUI(uiModeOn, true) || shouldUseTUI(uiModeOff, false) {
		t.Error("explicit modes must win")
	}
	if c, err := readColorMode("on", os.Stderr); err != nil || !c {
		t.Errorf("readColorMode(on) = %v, %v", c, err)
	}
	if _, err := readColorMode("rainbow", os.Stderr); err == nil {
		t.Error("expected error for color mode")
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.seq")
	writeFile(t, path, "A -> B\n")
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	if _, _, err := execute(t, "", "--cpu-profile", cpu, "--mem-profile", mem, "parse", path); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{cpu, mem} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("profile %s not written: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("profile %s is empty", p)
		}
	}
}

func TestShortDiagnosticsFormat(t *testing.T) {
	_, errOut, err := execute(t, "A -> B\nB C\n", "--diagnostics-format", "short", "parse", "-")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	found := false
	for _, line := range strings.Split(errOut, "\n") {
		if strings.HasPrefix(line, "error SYN2001 ") && strings.Contains(line, ":2:3 ") {
			found = true
		}
	}
	if !found {
		t.Fatalf("short diagnostic missing:\n%s", errOut)
	}

	if _, _, err := execute(t, "A -> B\n", "--diagnostics-format", "xml", "parse", "-"); err == nil {
		t.Fatal("unknown diagnostics format must be rejected")
	}
}

func TestInitThenRender(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := execute(t, "", "init", dir); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "a.seq"), "A -> B\n")

	if _, errOut, err := execute(t, "", "render", "a.seq", "-o", "a.svg"); err != nil {
		t.Fatalf("render after init: %v\n%s", err, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.svg")); err != nil {
		t.Fatal(err)
	}
}
