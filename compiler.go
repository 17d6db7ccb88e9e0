package scryptlib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Compiler turns a contract source file into a description or diagnostics.
// A compilation that ran but found errors is not a Go error: the
// diagnostics are carried in the result.
type Compiler interface {
	Compile(ctx context.Context, sourcePath string) (*CompileResult, error)
}

// CompileResult is the outcome of compiling one source file.
type CompileResult struct {
	File        string
	Description *Description
	Errors      []Diagnostic
	Warnings    []Diagnostic
}

// Success reports whether the compilation produced a description.
func (r *CompileResult) Success() bool {
	return len(r.Errors) == 0 && r.Description != nil
}

// DescToCompileResult wraps an already-built description as a successful
// result.
func DescToCompileResult(desc *Description) *CompileResult {
	return &CompileResult{
		File:        desc.EntrySource(),
		Description: desc,
	}
}

// ErrCompilerNotFound indicates no scryptc executable could be located.
var ErrCompilerNotFound = errors.New("scryptlib: scryptc compiler not found")

var versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+\+commit\.`)

// Scryptc runs the external scryptc compiler.
type Scryptc struct {
	config *compilerConfig
}

// NewScryptc locates the compiler binary and returns a Compiler around it.
func NewScryptc(opts ...CompilerOption) (*Scryptc, error) {
	config := defaultCompilerConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.bin == "" {
		bin, err := FindCompiler()
		if err != nil {
			return nil, err
		}
		config.bin = bin
	}
	return &Scryptc{config: config}, nil
}

// FindCompiler returns $SCRYPTC when set, otherwise scryptc from $PATH.
func FindCompiler() (string, error) {
	if bin := os.Getenv("SCRYPTC"); bin != "" {
		return bin, nil
	}
	bin, err := exec.LookPath("scryptc")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompilerNotFound, err)
	}
	return bin, nil
}

// Binary returns the compiler executable path.
func (s *Scryptc) Binary() string {
	return s.config.bin
}

// Version returns the compiler version, e.g. "1.3.0+commit.9a8c2b1".
func (s *Scryptc) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, s.config.bin, "version").Output()
	if err != nil {
		return "", fmt.Errorf("scryptlib: compiler version: %w", err)
	}
	fields := strings.Fields(string(out))
	if len(fields) < 2 || !versionRe.MatchString(fields[1]) {
		return "", fmt.Errorf("scryptlib: unrecognized compiler version output %q", strings.TrimSpace(string(out)))
	}
	return fields[1], nil
}

func (s *Scryptc) commandArgs(outDir, sourcePath string) []string {
	args := []string{"compile"}
	args = append(args, s.config.flags...)
	if s.config.debug {
		args = append(args, "--debug")
	}
	if s.config.optimize {
		args = append(args, "--optimize")
	}
	args = append(args, "-r", "-o", outDir)
	args = append(args, s.config.extra...)
	return append(args, sourcePath)
}

// Compile runs the compiler on sourcePath. Compiler diagnostics are returned
// in the result; a non-nil error means the compiler could not be run or its
// output could not be read.
func (s *Scryptc) Compile(ctx context.Context, sourcePath string) (*CompileResult, error) {
	path, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, err
	}

	outDir := s.config.outDir
	if outDir == "" {
		if outDir, err = os.MkdirTemp("", "scryptc-"); err != nil {
			return nil, err
		}
		defer os.RemoveAll(outDir)
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	args := s.commandArgs(outDir, path)
	s.config.logger.Debug("Running compiler", "bin", s.config.bin, "args", strings.Join(args, " "))

	out, runErr := exec.CommandContext(ctx, s.config.bin, args...).CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	errs, warnings := ParseCompilerOutput(string(out))
	for _, w := range warnings {
		s.config.logger.Warn("Compiler warning", "file", w.FilePath, "line", w.Position[0].Line, "msg", w.Message)
	}
	if len(errs) > 0 {
		s.config.logger.Debug("Compilation failed", "file", path, "errors", len(errs))
		return &CompileResult{File: path, Errors: errs, Warnings: warnings}, nil
	}
	if msg, ok := internalError(string(out)); ok {
		return nil, fmt.Errorf("scryptlib: compiler internal error: %s", msg)
	}
	if runErr != nil {
		return nil, fmt.Errorf("scryptlib: run compiler: %w: %s", runErr, strings.TrimSpace(string(out)))
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	desc, err := LoadDescription(filepath.Join(outDir, stem+"_desc.json"))
	if err != nil {
		return nil, fmt.Errorf("scryptlib: read compiler output: %w", err)
	}

	res := DescToCompileResult(desc)
	if res.File == "" {
		res.File = path
	}
	res.Warnings = warnings
	return res, nil
}

// CompileAll compiles every path with at most limit concurrent runs (no
// limit when limit <= 0). Results are returned in input order. The first
// run that fails to execute cancels the rest.
func CompileAll(ctx context.Context, c Compiler, paths []string, limit int) ([]*CompileResult, error) {
	results := make([]*CompileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range paths {
		g.Go(func() error {
			res, err := c.Compile(ctx, p)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
