package scalagen

import "errors"

var (
	// ErrClassNameRequired indicates the suite class name is missing
	ErrClassNameRequired = errors.New("class name must be specified")

	// ErrDatasetRequired indicates the dataset name is missing
	ErrDatasetRequired = errors.New("dataset must be specified")

	// ErrTargetRequired indicates the target kind is missing or unknown
	ErrTargetRequired = errors.New("target kind must be specified (spark, scala)")
)
