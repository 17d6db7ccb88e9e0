package scryptlib

import (
	"github.com/ethereum/go-ethereum/log"
)

// ClassOption configures a ContractClass.
type ClassOption func(*classConfig)

// CompilerOption configures a Scryptc compiler.
type CompilerOption func(*compilerConfig)

// classConfig holds configuration shared by a class and its instances.
type classConfig struct {
	verifier Verifier
	logger   log.Logger
}

// defaultClassConfig returns the default class configuration: no verifier
// and the root logger tagged with this package.
func defaultClassConfig() *classConfig {
	return &classConfig{
		logger: log.Root().With("pkg", "scryptlib"),
	}
}

// WithVerifier sets the script interpreter used by Call.Verify.
func WithVerifier(v Verifier) ClassOption {
	return func(c *classConfig) {
		c.verifier = v
	}
}

// WithLogger sets the logger for the class and every instance built from it.
func WithLogger(l log.Logger) ClassOption {
	return func(c *classConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// compilerConfig holds configuration for Scryptc.
type compilerConfig struct {
	bin      string
	outDir   string
	flags    []string
	extra    []string
	debug    bool
	optimize bool
	logger   log.Logger
}

// defaultCompileFlags asks the compiler for every output the description needs.
var defaultCompileFlags = []string{"--asm", "--ast", "--hex", "--desc"}

func defaultCompilerConfig() *compilerConfig {
	return &compilerConfig{
		flags:  append([]string(nil), defaultCompileFlags...),
		logger: log.Root().With("pkg", "scryptlib", "component", "compiler"),
	}
}

// WithCompilerBinary sets the scryptc executable path.
// By default $SCRYPTC is used, then scryptc on $PATH.
func WithCompilerBinary(path string) CompilerOption {
	return func(c *compilerConfig) {
		c.bin = path
	}
}

// WithOutDir sets the directory the compiler writes its artifacts to.
// By default a fresh temporary directory is used per compilation.
func WithOutDir(dir string) CompilerOption {
	return func(c *compilerConfig) {
		c.outDir = dir
	}
}

// WithDebug enables the compiler's debug build.
func WithDebug(enabled bool) CompilerOption {
	return func(c *compilerConfig) {
		c.debug = enabled
	}
}

// WithOptimize enables the compiler's optimizer.
func WithOptimize(enabled bool) CompilerOption {
	return func(c *compilerConfig) {
		c.optimize = enabled
	}
}

// WithCompileFlags replaces the default output flags.
func WithCompileFlags(flags ...string) CompilerOption {
	return func(c *compilerConfig) {
		c.flags = flags
	}
}

// WithCompilerArgs appends raw arguments before the source path.
func WithCompilerArgs(args ...string) CompilerOption {
	return func(c *compilerConfig) {
		c.extra = append(c.extra, args...)
	}
}

// WithCompilerLogger sets the logger for compiler runs.
func WithCompilerLogger(l log.Logger) CompilerOption {
	return func(c *compilerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
