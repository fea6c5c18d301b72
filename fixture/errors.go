package fixture

import "errors"

// Sentinel errors - fixture parsing
var (
	// ErrDatasetRequired indicates the mandatory dataset attribute is missing.
	// This is an authoring error and aborts the run.
	ErrDatasetRequired = errors.New("dataset attribute is mandatory")

	// ErrQueryRequired indicates a test case element has no oql child element.
	ErrQueryRequired = errors.New("oql element is mandatory in test case")

	// ErrNoRootElement indicates the fixture document is empty or not XML.
	ErrNoRootElement = errors.New("fixture document has no root element")
)
