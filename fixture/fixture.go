package fixture

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// File represents one parsed fixture document.
type File struct {
	Path     string
	Dataset  string
	Disabled string // non-empty reason disables the whole file
	Cases    []Case
}

// Case represents one positional test case within a fixture file.
// The index is stable across edits that disable sibling cases: disabled
// cases still occupy their slot.
type Case struct {
	Index    int
	Query    string
	Disabled string // non-empty reason excludes the case from output
}

// IsDisabled reports whether file-level generation is suppressed.
func (f *File) IsDisabled() bool {
	return f.Disabled != ""
}

// IsDisabled reports whether this case is excluded from output.
func (c *Case) IsDisabled() bool {
	return c.Disabled != ""
}

// Parse reads and parses the fixture file at path.
func Parse(path string) (*File, error) {
	doc := etree.NewDocument()

	err := doc.ReadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	file, err := parseDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	file.Path = path

	return file, nil
}

// ParseReader parses fixture XML from a reader.
func ParseReader(r io.Reader) (*File, error) {
	doc := etree.NewDocument()

	_, err := doc.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture document: %w", err)
	}

	return parseDocument(doc)
}

func parseDocument(doc *etree.Document) (*File, error) {
	root := doc.Root()
	if root == nil {
		return nil, ErrNoRootElement
	}

	datasetAttr := root.SelectAttr("dataset")
	if datasetAttr == nil {
		return nil, ErrDatasetRequired
	}

	file := &File{
		Dataset: datasetAttr.Value,
	}

	if disabled := root.SelectAttr("disabled"); disabled != nil {
		file.Disabled = disabledReason(disabled.Value)
		// No per-case parsing for a disabled file.
		return file, nil
	}

	for i, elem := range root.ChildElements() {
		c := Case{Index: i}

		if disabled := elem.SelectAttr("disabled"); disabled != nil {
			c.Disabled = disabledReason(disabled.Value)
		}

		oql := elem.SelectElement("oql")
		if oql == nil {
			return nil, fmt.Errorf("case %d: %w", i, ErrQueryRequired)
		}

		// Trim the indentation padding around the query but keep the
		// interior formatting verbatim; it is reproduced literally inside
		// a triple-quoted string in the generated source.
		c.Query = strings.TrimSpace(oql.Text())

		file.Cases = append(file.Cases, c)
	}

	return file, nil
}

// disabledReason normalizes an empty disabled attribute to a placeholder so
// that IsDisabled stays a simple non-empty check.
func disabledReason(value string) string {
	if strings.TrimSpace(value) == "" {
		return "no reason given"
	}

	return value
}
