package scalagen

// suiteData is the data structure for the suite template
type suiteData struct {
	Package     string
	ClassName   string
	Dataset     string
	TestType    string
	TestMethods string
}

// testMethodData is the data structure for a single test method
type testMethodData struct {
	Dataset  string
	TestName string
	Query    string
}

// suiteTemplate renders the file-level suite container. The testType value
// is read by GeneratedQuerySuite's setup code to pick the execution backend.
const suiteTemplate = `package {{.Package}}

import raw.executor.generated.GeneratedQuerySuite
import raw.executor.generated.TestType

class {{.ClassName}}Test extends GeneratedQuerySuite {

  override val dataset = "{{.Dataset}}"
  override val testType = TestType.{{.TestType}}
{{.TestMethods}}}
`

// testMethodTemplate renders one test method. Leading and trailing newlines
// are part of the snippet so that concatenated methods stay separated.
const testMethodTemplate = `
  test("{{.TestName}}") {
    val oql = """
      {{.Query}}
    """
    val result = queryCompiler.compileOQL(oql, scanners).computeResult
    assertJsonEqual("{{.Dataset}}", "{{.TestName}}", result)
  }
`
