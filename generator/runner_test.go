package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludovicc/raw/fixture"
)

// newFixtureTree creates <tmp>/src/test/scala/com/raw/queries and writes the
// given fixture files into it, returning the tree root and the fixture dir.
func newFixtureTree(t *testing.T, files map[string]string) (string, string) {
	t.Helper()

	base := t.TempDir()
	dir := filepath.Join(base, "src", "test", "scala", "com", "raw", "queries")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return base, dir
}

func readGenerated(t *testing.T, dir, kind, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, GeneratedDirName, kind, name))
	require.NoError(t, err)

	return string(data)
}

const joinFixture = `<tests dataset="orders">
  <test>
    <oql>SELECT * FROM t</oql>
  </test>
</tests>`

func TestRunGeneratesBothTargetKinds(t *testing.T) {
	base, dir := newFixtureTree(t, map[string]string{"join.xml": joinFixture})

	summary, err := New(base, "queries").Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FixtureDirs)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.MethodsGenerated)
	assert.Equal(t, 2, summary.UnitsWritten)

	spark := readGenerated(t, dir, "spark", "JoinTest.scala")
	scala := readGenerated(t, dir, "scala", "JoinTest.scala")

	assert.Contains(t, spark, "package com.raw.queries.generated.spark")
	assert.Contains(t, scala, "package com.raw.queries.generated.scala")
	assert.Contains(t, spark, "override val testType = TestType.Spark")
	assert.Contains(t, scala, "override val testType = TestType.Scala")

	for _, code := range []string{spark, scala} {
		assert.Contains(t, code, `test("Join0")`)
		assert.Contains(t, code, "SELECT * FROM t")
		assert.Contains(t, code, `assertJsonEqual("orders", "Join0", result)`)
	}
}

func TestRunDisabledCaseKeepsSiblingNames(t *testing.T) {
	aggFixture := `<tests dataset="orders">
  <test>
    <oql>SELECT COUNT(*) FROM t</oql>
  </test>
  <test disabled="flaky">
    <oql>SELECT SUM(x) FROM t</oql>
  </test>
  <test>
    <oql>SELECT MAX(x) FROM t</oql>
  </test>
</tests>`

	base, dir := newFixtureTree(t, map[string]string{"agg.xml": aggFixture})

	summary, err := New(base, "queries").Run()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.MethodsGenerated)
	assert.Equal(t, 1, summary.MethodsDisabled)

	for _, kind := range []string{"spark", "scala"} {
		code := readGenerated(t, dir, kind, "AggTest.scala")

		assert.Contains(t, code, `test("Agg0")`)
		assert.NotContains(t, code, `test("Agg1")`)
		// The disabled case still consumed index 1.
		assert.Contains(t, code, `test("Agg2")`)
		assert.NotContains(t, code, "SELECT SUM(x) FROM t")
	}
}

func TestRunDisabledFileEmitsNothing(t *testing.T) {
	disabled := `<tests dataset="orders" disabled="dataset unavailable">
  <test>
    <oql>SELECT * FROM t</oql>
  </test>
</tests>`

	base, dir := newFixtureTree(t, map[string]string{"old.xml": disabled})

	summary, err := New(base, "queries").Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Equal(t, 0, summary.FilesProcessed)
	assert.Equal(t, 0, summary.UnitsWritten)

	_, statErr := os.Stat(filepath.Join(dir, GeneratedDirName, "spark", "OldTest.scala"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingDatasetAborts(t *testing.T) {
	broken := `<tests>
  <test>
    <oql>SELECT * FROM t</oql>
  </test>
</tests>`

	base, dir := newFixtureTree(t, map[string]string{"broken.xml": broken})

	_, err := New(base, "queries").Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, fixture.ErrDatasetRequired)

	_, statErr := os.Stat(filepath.Join(dir, GeneratedDirName, "spark", "BrokenTest.scala"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunIsIdempotent(t *testing.T) {
	base, dir := newFixtureTree(t, map[string]string{"join.xml": joinFixture})

	runner := New(base, "queries")

	_, err := runner.Run()
	require.NoError(t, err)

	first := readGenerated(t, dir, "spark", "JoinTest.scala")

	_, err = runner.Run()
	require.NoError(t, err)

	second := readGenerated(t, dir, "spark", "JoinTest.scala")
	assert.Equal(t, first, second)
}

func TestRunPurgesStaleOutput(t *testing.T) {
	base, dir := newFixtureTree(t, map[string]string{
		"join.xml": joinFixture,
		"agg.xml":  strings.Replace(joinFixture, "orders", "sales", 1),
	})

	runner := New(base, "queries")

	_, err := runner.Run()
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, GeneratedDirName, "spark", "AggTest.scala"))

	// Deleting a fixture and rerunning removes its generated output.
	require.NoError(t, os.Remove(filepath.Join(dir, "agg.xml")))

	summary, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PurgedDirs)
	assert.NoFileExists(t, filepath.Join(dir, GeneratedDirName, "spark", "AggTest.scala"))
	assert.FileExists(t, filepath.Join(dir, GeneratedDirName, "spark", "JoinTest.scala"))
}

func TestRunIgnoresNonFixtureFiles(t *testing.T) {
	base, _ := newFixtureTree(t, map[string]string{
		"join.xml":       joinFixture,
		"notes.txt":      "not a fixture",
		"backup.xml.bak": "not a fixture either",
	})

	summary, err := New(base, "queries").Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 2, summary.UnitsWritten)
}

func TestRunSkipsDirsWithoutFixtures(t *testing.T) {
	base := t.TempDir()
	empty := filepath.Join(base, "src", "test", "scala", "com", "raw", "queries")
	require.NoError(t, os.MkdirAll(empty, 0o755))

	summary, err := New(base, "queries").Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FixtureDirs)
	assert.Equal(t, 0, summary.FilesProcessed)
	assert.Equal(t, 0, summary.PurgedDirs)
}

func TestRunQueryReproducedVerbatim(t *testing.T) {
	multiline := `<tests dataset="dept">
  <test>
    <oql>
      SELECT dept,
             COUNT(*)
      FROM employees
      GROUP BY dept
    </oql>
  </test>
</tests>`

	base, dir := newFixtureTree(t, map[string]string{"group.xml": multiline})

	_, err := New(base, "queries").Run()
	require.NoError(t, err)

	code := readGenerated(t, dir, "scala", "GroupTest.scala")
	assert.Contains(t, code, "SELECT dept,\n             COUNT(*)\n      FROM employees\n      GROUP BY dept")
}

func TestRunAnchorMissingFails(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "plain", "queries")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "join.xml"), []byte(joinFixture), 0o644))

	_, err := New(base, "queries").Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPackageAnchorNotFound)
}

func TestValidateReportsAuthoringErrors(t *testing.T) {
	base, _ := newFixtureTree(t, map[string]string{
		"join.xml":   joinFixture,
		"broken.xml": `<tests><test><oql>SELECT 1</oql></test></tests>`,
	})

	summary, problems := New(base, "queries").Validate()

	require.Len(t, problems, 1)
	assert.ErrorIs(t, problems[0], fixture.ErrDatasetRequired)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.MethodsGenerated)
}

func TestDerivePackage(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		expected string
	}{
		{
			name:     "simple path",
			dir:      "/work/exec/src/test/scala/com/x/generated",
			expected: "com.x.generated",
		},
		{
			name:     "single segment",
			dir:      "build/src/test/scala/queries",
			expected: "queries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := derivePackage(tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pkg)
		})
	}
}

func TestUpperFirst(t *testing.T) {
	assert.Equal(t, "Join", upperFirst("join"))
	assert.Equal(t, "JoinLeft", upperFirst("joinLeft"))
	assert.Equal(t, "", upperFirst(""))
	assert.Equal(t, "X", upperFirst("x"))
}
