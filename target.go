package raw

// TargetKind represents the test-execution backends generated suites run against.
// This type is shared across all packages.
type TargetKind string

const (
	// TargetSpark is the distributed engine harness.
	TargetSpark TargetKind = "spark"
	// TargetScala is the single node harness.
	TargetScala TargetKind = "scala"
)

// AllTargets lists every supported target kind in generation order.
var AllTargets = []TargetKind{TargetSpark, TargetScala}

// Dir returns the output subdirectory under generated/ for this target.
func (t TargetKind) Dir() string {
	return string(t)
}

// Marker returns the testType marker the generated suite's setup code reads
// to pick its execution backend.
func (t TargetKind) Marker() string {
	switch t {
	case TargetSpark:
		return "Spark"
	case TargetScala:
		return "Scala"
	default:
		return ""
	}
}

// PackageSuffix returns the package segment appended after the derived
// package, e.g. "generated.spark".
func (t TargetKind) PackageSuffix() string {
	return "generated." + string(t)
}

// ParseTargetKind validates a target name from configuration.
func ParseTargetKind(name string) (TargetKind, error) {
	switch TargetKind(name) {
	case TargetSpark:
		return TargetSpark, nil
	case TargetScala:
		return TargetScala, nil
	default:
		return "", ErrUnknownTarget
	}
}
