package compiler

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options controls optional behavior of the pipeline.
type Options struct {
	// Optimize enables constant folding, strength reduction and the
	// peephole pass. On by default.
	Optimize bool
}

func DefaultOptions() Options {
	return Options{Optimize: true}
}

// Result is the outcome of compiling one source file. When Errors is
// non-empty, VMCode is empty: a file that fails any stage produces no
// output.
type Result struct {
	// Filename is the source path (or class name for in-memory input).
	Filename string
	// Source is retained for diagnostic rendering.
	Source string
	VMCode string
	Errors []*Error
}

func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// ClassName derives the expected class name from the source filename.
func (r *Result) ClassName() string {
	base := filepath.Base(r.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Compile runs the full pipeline on one source text with default options.
func Compile(source, filename string) *Result {
	return CompileWithOptions(source, filename, DefaultOptions())
}

// CompileWithOptions tokenizes, parses and generates code for one source
// text. Stages are ordered strictly: lexical errors stop before parsing,
// syntax errors stop before code generation, and semantic errors discard
// the generated text. All errors of the failing stage are reported together.
func CompileWithOptions(source, filename string, opts Options) *Result {
	result := &Result{Filename: filename, Source: source}

	tokens, lexErrs := NewTokenizer(source).Tokenize()
	if lexErrs != nil {
		result.Errors = lexErrs
		return result
	}

	class, parseErrs := NewParser(tokens).Parse()
	if parseErrs != nil {
		result.Errors = parseErrs
		return result
	}

	semErrs := NewErrorList()
	gen := NewGenerator(semErrs, opts.Optimize)
	vmCode := gen.Generate(class)
	if semErrs.HasErrors() {
		result.Errors = semErrs.Errors()
		return result
	}

	if opts.Optimize {
		vmCode = Peephole(vmCode)
	}
	result.VMCode = vmCode
	return result
}

// CompileFile reads and compiles one .jack file.
func CompileFile(path string, opts Options) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Filename: path, Errors: []*Error{ioErr(path, err)}}
	}
	return CompileWithOptions(string(data), path, opts)
}

// CompileDirectory compiles every .jack file directly under dir. Files are
// compiled concurrently, each through an independent pipeline, with
// parallelism bounded by the CPU count; results come back in sorted filename
// order regardless of completion order. A file that fails to compile does
// not affect its siblings. The returned error covers only the directory
// listing itself.
func CompileDirectory(dir string, opts Options) ([]*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioErr(dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jack") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	results := make([]*Result, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = CompileFile(path, opts)
			return nil
		})
	}
	g.Wait()

	return results, nil
}

// WriteResult writes the result's VM code as <ClassName>.vm under outputDir.
// Failed results are skipped without touching the filesystem.
func WriteResult(result *Result, outputDir string) *Error {
	if !result.OK() {
		return nil
	}
	path := filepath.Join(outputDir, result.ClassName()+".vm")
	if err := os.WriteFile(path, []byte(result.VMCode), 0o644); err != nil {
		return ioErr(path, err)
	}
	return nil
}
