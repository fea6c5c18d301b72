package scalagen

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	raw "github.com/ludovicc/raw"
)

// Generator generates one Scala test suite source file from rendered test
// method snippets.
type Generator struct {
	ClassName   string
	PackageName string
	Dataset     string
	Target      raw.TargetKind
	TestMethods []string
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithPackageName sets the package name for the generated suite
func WithPackageName(name string) Option {
	return func(g *Generator) {
		g.PackageName = name
	}
}

// WithDataset sets the dataset the generated suite runs against
func WithDataset(dataset string) Option {
	return func(g *Generator) {
		g.Dataset = dataset
	}
}

// WithTarget sets the execution backend marker for the generated suite
func WithTarget(target raw.TargetKind) Option {
	return func(g *Generator) {
		g.Target = target
	}
}

// WithTestMethods sets the rendered test method snippets in source order
func WithTestMethods(methods []string) Option {
	return func(g *Generator) {
		g.TestMethods = methods
	}
}

// New creates a new Generator
func New(className string, opts ...Option) *Generator {
	g := &Generator{
		ClassName:   className,
		PackageName: "generated",
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// FileName returns the base name of the generated source file.
func (g *Generator) FileName() string {
	return g.ClassName + "Test.scala"
}

// Generate generates the Scala suite and writes it to the writer
func (g *Generator) Generate(w io.Writer) error {
	if g.ClassName == "" {
		return ErrClassNameRequired
	}

	if g.Dataset == "" {
		return ErrDatasetRequired
	}

	if g.Target.Marker() == "" {
		return ErrTargetRequired
	}

	tmpl, err := template.New("scala").Parse(suiteTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse suite template: %w", err)
	}

	data := suiteData{
		Package:     g.PackageName + "." + g.Target.PackageSuffix(),
		ClassName:   g.ClassName,
		Dataset:     g.Dataset,
		TestType:    g.Target.Marker(),
		TestMethods: strings.Join(g.TestMethods, ""),
	}

	// Execute template to buffer first to catch any errors
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute suite template: %w", err)
	}

	_, err = w.Write(buf.Bytes())

	return err
}

// RenderTestMethod renders one test method snippet. The query text is
// reproduced verbatim inside the triple-quoted string; the generated
// method compiles the query against the fixture scanners and asserts
// JSON equality against the reference keyed by (dataset, testName).
func RenderTestMethod(dataset, testName, query string) (string, error) {
	tmpl, err := template.New("testMethod").Parse(testMethodTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse test method template: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.Execute(&buf, testMethodData{
		Dataset:  dataset,
		TestName: testName,
		Query:    query,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render test method %s: %w", testName, err)
	}

	return buf.String(), nil
}
