package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"

	raw "github.com/ludovicc/raw"
	"github.com/ludovicc/raw/fixture"
	"github.com/ludovicc/raw/langs/scalagen"
)

const (
	// PackageAnchor is the path segment after which the Scala package of the
	// generated suite starts.
	PackageAnchor = "src/test/scala/"

	// GeneratedDirName is the subdirectory under each fixture directory that
	// is exclusively owned by the generator. It is purged before every run.
	GeneratedDirName = "generated"
)

// Runner walks a directory tree and regenerates test suites for every
// fixture directory whose path ends with the match suffix.
type Runner struct {
	BaseDir     string
	MatchSuffix string
	FixtureExt  string
	Targets     []raw.TargetKind
	Retry       RetryPolicy
	Verbose     bool
}

// Option is a function that configures Runner
type Option func(*Runner)

// WithFixtureExt sets the fixture file extension (default ".xml")
func WithFixtureExt(ext string) Option {
	return func(r *Runner) {
		r.FixtureExt = ext
	}
}

// WithTargets sets the target kinds to generate (default spark and scala)
func WithTargets(targets []raw.TargetKind) Option {
	return func(r *Runner) {
		r.Targets = targets
	}
}

// WithRetry sets the retry policy for transient per-file failures
func WithRetry(policy RetryPolicy) Option {
	return func(r *Runner) {
		r.Retry = policy
	}
}

// WithVerbose enables per-file progress output
func WithVerbose(verbose bool) Option {
	return func(r *Runner) {
		r.Verbose = verbose
	}
}

// New creates a new Runner
func New(baseDir, matchSuffix string, opts ...Option) *Runner {
	r := &Runner{
		BaseDir:     baseDir,
		MatchSuffix: matchSuffix,
		FixtureExt:  ".xml",
		Targets:     raw.AllTargets,
		Retry:       RetryPolicy{MaxAttempts: raw.DefaultRetryAttempts},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Summary represents the overall generation summary
type Summary struct {
	FixtureDirs      int
	PurgedDirs       int
	FilesProcessed   int
	FilesSkipped     int
	MethodsGenerated int
	MethodsDisabled  int
	UnitsWritten     int
}

// Run executes one generation pass. Fixture directories are handled in
// traversal order, files within a directory in listing order. Any error
// that is not retried as transient halts the whole pass.
func (r *Runner) Run() (*Summary, error) {
	if _, err := os.Stat(r.BaseDir); err != nil {
		return nil, fmt.Errorf("base directory is not accessible: %w", err)
	}

	dirs, err := r.findFixtureDirs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate fixture directories: %w", err)
	}

	summary := &Summary{FixtureDirs: len(dirs)}

	for _, dir := range dirs {
		if err := r.processDir(dir, summary); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

// Validate parses every fixture file under the base directory without
// writing any output. Authoring errors are reported all at once.
func (r *Runner) Validate() (*Summary, []error) {
	dirs, err := r.findFixtureDirs()
	if err != nil {
		return nil, []error{err}
	}

	summary := &Summary{FixtureDirs: len(dirs)}

	var problems []error

	for _, dir := range dirs {
		files, err := r.listFixtureFiles(dir)
		if err != nil {
			problems = append(problems, err)
			continue
		}

		for _, name := range files {
			file, err := fixture.Parse(filepath.Join(dir, name))
			if err != nil {
				problems = append(problems, err)
				continue
			}

			if file.IsDisabled() {
				summary.FilesSkipped++
				continue
			}

			summary.FilesProcessed++

			for _, c := range file.Cases {
				if c.IsDisabled() {
					summary.MethodsDisabled++
				} else {
					summary.MethodsGenerated++
				}
			}
		}
	}

	return summary, problems
}

// findFixtureDirs enumerates directories whose path ends with the match
// suffix, in traversal order. Enumeration is a separate phase from
// generation so that purging does not depend on which file is seen first.
func (r *Runner) findFixtureDirs() ([]string, error) {
	var dirs []string

	suffix := strings.TrimSuffix(filepath.ToSlash(r.MatchSuffix), "/")

	err := filepath.WalkDir(r.BaseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if strings.HasSuffix(filepath.ToSlash(path), suffix) {
			dirs = append(dirs, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return dirs, nil
}

// listFixtureFiles returns fixture file names in a directory in listing order.
func (r *Runner) listFixtureFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixture directory %s: %w", dir, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.HasSuffix(entry.Name(), r.FixtureExt) {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// processDir purges stale output and regenerates every fixture file in dir.
func (r *Runner) processDir(dir string, summary *Summary) error {
	files, err := r.listFixtureFiles(dir)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return nil
	}

	if err := r.purgeGenerated(dir, summary); err != nil {
		return err
	}

	for _, name := range files {
		path := filepath.Join(dir, name)

		if r.Verbose {
			fmt.Printf("Found fixture file %s\n", path)
		}

		err := r.Retry.Do(path, func() error {
			return r.processFile(dir, name, summary)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// purgeGenerated deletes the generated subdirectory so that output from
// deleted or renamed fixtures never lingers. A missing directory is a no-op.
func (r *Runner) purgeGenerated(dir string, summary *Summary) error {
	target := filepath.Join(dir, GeneratedDirName)

	if _, err := os.Stat(target); os.IsNotExist(err) {
		return nil
	}

	color.Cyan("Deleting target directory: %s", target)

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to purge generated directory %s: %w", target, err)
	}

	summary.PurgedDirs++

	return nil
}

// processFile generates both target-kind suites for one fixture file.
func (r *Runner) processFile(dir, name string, summary *Summary) error {
	pkg, err := derivePackage(dir)
	if err != nil {
		return err
	}

	file, err := fixture.Parse(filepath.Join(dir, name))
	if err != nil {
		return err
	}

	if file.IsDisabled() {
		color.Yellow("Skipping file %s, tests disabled. Reason: %s", file.Path, file.Disabled)

		summary.FilesSkipped++

		return nil
	}

	className := upperFirst(strings.TrimSuffix(name, r.FixtureExt))
	methods := make([]string, 0, len(file.Cases))

	for _, c := range file.Cases {
		// The disabled case still consumes its positional index so that
		// sibling test names stay stable across disable/enable edits.
		testName := className + strconv.Itoa(c.Index)

		if c.IsDisabled() {
			color.Yellow("Test disabled: %s. Reason: %s", testName, c.Disabled)

			summary.MethodsDisabled++

			continue
		}

		snippet, err := scalagen.RenderTestMethod(file.Dataset, testName, c.Query)
		if err != nil {
			return err
		}

		methods = append(methods, snippet)
		summary.MethodsGenerated++
	}

	for _, target := range r.Targets {
		if err := r.writeUnit(dir, pkg, className, file.Dataset, target, methods, summary); err != nil {
			return err
		}
	}

	summary.FilesProcessed++

	return nil
}

// writeUnit renders and writes one generated suite for one target kind.
func (r *Runner) writeUnit(dir, pkg, className, dataset string, target raw.TargetKind, methods []string, summary *Summary) error {
	gen := scalagen.New(className,
		scalagen.WithPackageName(pkg),
		scalagen.WithDataset(dataset),
		scalagen.WithTarget(target),
		scalagen.WithTestMethods(methods),
	)

	var buf bytes.Buffer
	if err := gen.Generate(&buf); err != nil {
		return fmt.Errorf("failed to generate %s suite for %s: %w", target, className, err)
	}

	outDir := filepath.Join(dir, GeneratedDirName, target.Dir())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	outFile := filepath.Join(outDir, gen.FileName())
	if err := os.WriteFile(outFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write generated file %s: %w", outFile, err)
	}

	if r.Verbose {
		color.Green("Writing file %s", outFile)
	}

	summary.UnitsWritten++

	return nil
}

// derivePackage maps the fixture directory path after the package anchor to
// a dot-separated Scala package.
func derivePackage(dir string) (string, error) {
	slashed := filepath.ToSlash(dir)

	idx := strings.Index(slashed, PackageAnchor)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s (expected segment %q)", ErrPackageAnchorNotFound, dir, PackageAnchor)
	}

	rest := slashed[idx+len(PackageAnchor):]

	return strings.ReplaceAll(rest, "/", "."), nil
}

// upperFirst upper-cases the first character of the fixture base name to
// form the suite class name.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// PrintSummary prints the generation summary
func (r *Runner) PrintSummary(summary *Summary) {
	fmt.Println()
	fmt.Println("=== Generation Summary ===")
	fmt.Printf("Fixture directories: %d\n", summary.FixtureDirs)
	fmt.Printf("Purged directories:  %d\n", summary.PurgedDirs)
	fmt.Printf("Files processed:     %d\n", summary.FilesProcessed)
	fmt.Printf("Files skipped:       %d\n", summary.FilesSkipped)
	fmt.Printf("Methods generated:   %d\n", summary.MethodsGenerated)
	fmt.Printf("Methods disabled:    %d\n", summary.MethodsDisabled)

	if summary.UnitsWritten > 0 {
		color.Green("Generated files:     %d", summary.UnitsWritten)
	} else {
		color.Yellow("Generated files:     0")
	}
}
