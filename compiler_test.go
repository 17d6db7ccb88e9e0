package scryptlib

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler writes a shell script that mimics scryptc: "version" prints a
// version line; "compile" copies <src>.desc.json next to the source into the
// output directory, or prints <src>.err and fails when that file exists.
func fakeCompiler(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a POSIX shell script")
	}

	script := `#!/bin/sh
if [ "$1" = "version" ]; then
  echo "Version: 1.3.0+commit.9a8c2b1"
  exit 0
fi
out=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    *) src="$1"; shift ;;
  esac
done
base="${src%.scrypt}"
name=$(basename "$base")
if [ -f "$base.err" ]; then
  cat "$base.err"
  exit 1
fi
if [ -f "$base.internal" ]; then
  echo "Internal error: codegen failed"
  exit 2
fi
cat "$base.warn" 2>/dev/null
cp "$base.desc.json" "$out/${name}_desc.json"
`
	bin := filepath.Join(t.TempDir(), "scryptc")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin
}

func writeSource(t *testing.T, dir, name string, extra map[string]string) string {
	t.Helper()
	src := filepath.Join(dir, name+".scrypt")
	require.NoError(t, os.WriteFile(src, []byte("contract "+name+" {}\n"), 0o644))
	for ext, content := range extra {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+ext), []byte(content), 0o644))
	}
	return src
}

func TestScryptcCompileSuccess(t *testing.T) {
	bin := fakeCompiler(t)
	dir := t.TempDir()

	descJSON, err := os.ReadFile("testdata/bar_desc.json")
	require.NoError(t, err)
	src := writeSource(t, dir, "bar", map[string]string{
		".desc.json": string(descJSON),
		".warn":      "Warning: " + filepath.Join(dir, "bar.scrypt") + ":2:3:2:9:\nunused variable `k`\n",
	})

	c, err := NewScryptc(WithCompilerBinary(bin), WithOutDir(filepath.Join(dir, "out")))
	require.NoError(t, err)

	res, err := c.Compile(context.Background(), src)
	require.NoError(t, err)
	require.True(t, res.Success())
	assert.Equal(t, "Bar", res.Description.Contract)
	assert.Equal(t, "/contracts/bar.scrypt", res.File)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "unused variable `k`", res.Warnings[0].Message)

	_, err = os.Stat(filepath.Join(dir, "out", "bar_desc.json"))
	assert.NoError(t, err, "artifacts are kept in the configured out dir")
}

func TestScryptcCompileDiagnostics(t *testing.T) {
	bin := fakeCompiler(t)
	dir := t.TempDir()

	libPath := filepath.Join(dir, "main.scrypt")
	src := writeSource(t, dir, "main", map[string]string{
		".err": "Error: " + libPath + ":1:8:1:21:\nFile not found: \" lib.scrypt\"\n",
	})

	c, err := NewScryptc(WithCompilerBinary(bin))
	require.NoError(t, err)

	res, err := c.Compile(context.Background(), src)
	require.NoError(t, err, "compile errors are reported as diagnostics")
	assert.False(t, res.Success())
	require.Len(t, res.Errors, 1)

	d := res.Errors[0]
	assert.Equal(t, SemanticError, d.Type)
	assert.Equal(t, "main.scrypt", filepath.Base(d.FilePath))
	assert.Equal(t, `File not found: " lib.scrypt"`, d.Message)
	assert.Equal(t, [2]Position{{Line: 1, Column: 8}, {Line: 1, Column: 21}}, d.Position)
}

func TestScryptcInternalError(t *testing.T) {
	bin := fakeCompiler(t)
	dir := t.TempDir()
	src := writeSource(t, dir, "broken", map[string]string{".internal": ""})

	c, err := NewScryptc(WithCompilerBinary(bin))
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codegen failed")
}

func TestScryptcMissingDescription(t *testing.T) {
	bin := fakeCompiler(t)
	dir := t.TempDir()
	src := writeSource(t, dir, "nodesc", nil)

	c, err := NewScryptc(WithCompilerBinary(bin))
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), src)
	assert.Error(t, err)
}

func TestScryptcVersion(t *testing.T) {
	c, err := NewScryptc(WithCompilerBinary(fakeCompiler(t)))
	require.NoError(t, err)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.3.0+commit.9a8c2b1", v)
}

func TestVersionPattern(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1.3.0+commit.9a8c2b1", true},
		{"1.19.2+commit.5e4e0ac.Linux.g++", true},
		{"0.9.0+commit.dev-build", true},
		{"1.3.0", false},
		{"v1.3.0+commit.9a8c2b1", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, versionRe.MatchString(tt.in))
		})
	}
}

func TestScryptcCommandArgs(t *testing.T) {
	c := &Scryptc{config: defaultCompilerConfig()}
	c.config.bin = "scryptc"
	WithDebug(true)(c.config)
	WithOptimize(true)(c.config)
	WithCompilerArgs("--verbose")(c.config)

	args := c.commandArgs("/out", "/src/a.scrypt")
	assert.Equal(t,
		"compile --asm --ast --hex --desc --debug --optimize -r -o /out --verbose /src/a.scrypt",
		strings.Join(args, " "))

	WithCompileFlags("--hex")(c.config)
	WithDebug(false)(c.config)
	WithOptimize(false)(c.config)
	assert.Equal(t, "compile --hex -r -o /out --verbose /src/a.scrypt", strings.Join(c.commandArgs("/out", "/src/a.scrypt"), " "))
}

func TestFindCompilerFromEnv(t *testing.T) {
	t.Setenv("SCRYPTC", "/opt/scrypt/scryptc")
	bin, err := FindCompiler()
	require.NoError(t, err)
	assert.Equal(t, "/opt/scrypt/scryptc", bin)

	c, err := NewScryptc()
	require.NoError(t, err)
	assert.Equal(t, "/opt/scrypt/scryptc", c.Binary())
}

func TestFindCompilerMissing(t *testing.T) {
	t.Setenv("SCRYPTC", "")
	t.Setenv("PATH", t.TempDir())
	_, err := FindCompiler()
	assert.ErrorIs(t, err, ErrCompilerNotFound)
}

func TestCompileAll(t *testing.T) {
	bin := fakeCompiler(t)
	dir := t.TempDir()

	descJSON, err := os.ReadFile("testdata/bar_desc.json")
	require.NoError(t, err)

	var paths []string
	for _, name := range []string{"one", "two", "three"} {
		paths = append(paths, writeSource(t, dir, name, map[string]string{".desc.json": string(descJSON)}))
	}
	paths = append(paths, writeSource(t, dir, "bad", map[string]string{
		".err": "Error: " + filepath.Join(dir, "bad.scrypt") + ":1:10:1:13:\nContact `Lib` must have at least one public function\n",
	}))

	c, err := NewScryptc(WithCompilerBinary(bin))
	require.NoError(t, err)

	results, err := CompileAll(context.Background(), c, paths, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results[:3] {
		assert.True(t, r.Success())
	}
	assert.False(t, results[3].Success())
	kind, subject := results[3].Errors[0].Classify()
	assert.Equal(t, MessageNoPublicFunction, kind)
	assert.Equal(t, "Lib", subject)
}

type stubCompiler struct {
	fail string
}

func (s stubCompiler) Compile(_ context.Context, path string) (*CompileResult, error) {
	if path == s.fail {
		return nil, os.ErrNotExist
	}
	return &CompileResult{File: path, Description: &Description{Contract: path}}, nil
}

func TestCompileAllStopsOnRunFailure(t *testing.T) {
	_, err := CompileAll(context.Background(), stubCompiler{fail: "b"}, []string{"a", "b", "c"}, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "b:")
}

func TestDescToCompileResult(t *testing.T) {
	res := DescToCompileResult(&Description{
		Contract: "Token",
		Sources:  []string{"std", "/c/util.scrypt", "/c/tokenUtxo.scrypt"},
	})
	assert.True(t, res.Success())
	assert.Contains(t, res.File, "tokenUtxo.scrypt")
}
