package main

import (
	"fmt"

	"github.com/fatih/color"

	raw "github.com/ludovicc/raw"
	"github.com/ludovicc/raw/generator"
)

// GenerateCmd represents the generate command
type GenerateCmd struct {
	BaseDir string `arg:"" optional:"" help:"Directory tree to walk for fixture directories" type:"path"`
	Match   string `short:"m" help:"Path suffix identifying fixture directories"`
	Ext     string `help:"Fixture file extension"`
}

func (g *GenerateCmd) Run(ctx *Context) error {
	runner, err := buildRunner(ctx, g.BaseDir, g.Match, g.Ext)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		color.Blue("Generating test suites from %s (match suffix: %s)", runner.BaseDir, runner.MatchSuffix)
	}

	summary, err := runner.Run()
	if err != nil {
		color.Red("Generation failed: %v", err)
		return err
	}

	if !ctx.Quiet {
		runner.PrintSummary(summary)
	}

	return nil
}

// ValidateCmd represents the validate command
type ValidateCmd struct {
	BaseDir string `arg:"" optional:"" help:"Directory tree to walk for fixture directories" type:"path"`
	Match   string `short:"m" help:"Path suffix identifying fixture directories"`
	Ext     string `help:"Fixture file extension"`
}

func (v *ValidateCmd) Run(ctx *Context) error {
	runner, err := buildRunner(ctx, v.BaseDir, v.Match, v.Ext)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		color.Blue("Validating fixture files under %s", runner.BaseDir)
	}

	summary, problems := runner.Validate()
	if len(problems) > 0 {
		for _, problem := range problems {
			color.Red("  %v", problem)
		}

		return fmt.Errorf("%w: %d problem(s) found", ErrValidationFailed, len(problems))
	}

	if !ctx.Quiet {
		color.Green("All fixture files are valid (%d files, %d test cases)",
			summary.FilesProcessed+summary.FilesSkipped,
			summary.MethodsGenerated+summary.MethodsDisabled)
	}

	return nil
}

// buildRunner resolves configuration and CLI overrides into a Runner.
func buildRunner(ctx *Context, baseDir, match, ext string) (*generator.Runner, error) {
	config, err := raw.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if baseDir == "" {
		baseDir = config.BaseDir
	}

	if baseDir == "" {
		return nil, raw.ErrBaseDirRequired
	}

	if match == "" {
		match = config.MatchDir
	}

	if ext == "" {
		ext = config.FixtureExt
	}

	targets, err := config.TargetKinds()
	if err != nil {
		return nil, err
	}

	// -1 in the configuration opts into the original unbounded retry loop.
	attempts := config.Generation.Retry.MaxAttempts
	if attempts < 0 {
		attempts = 0
	}

	runner := generator.New(baseDir, match,
		generator.WithFixtureExt(ext),
		generator.WithTargets(targets),
		generator.WithRetry(generator.RetryPolicy{MaxAttempts: attempts}),
		generator.WithVerbose(ctx.Verbose),
	)

	return runner, nil
}
