package errors

import (
	"fmt"
	"strings"
)

// Configuration errors

func BlankHeaderEntry(file string, line int) *BuildError {
	return New(CategoryConfiguration, "header list contains a blank entry").
		WithContext("file", file).
		WithContext("line", line)
}

func MissingHeaders(paths []string) *BuildError {
	return New(CategoryConfiguration, fmt.Sprintf("missing headers: %s", strings.Join(paths, ", "))).
		WithContext("missing", paths)
}

func InvalidManifest(reason string) *BuildError {
	return New(CategoryConfiguration, "invalid build manifest").
		WithContext("reason", reason)
}

func SourceTreeMissing(path string) *BuildError {
	return New(CategoryConfiguration, "pristine source tree not found").
		WithContext("path", path)
}

// Environment errors

func EnvRequired(name string) *BuildError {
	return New(CategoryEnvironment, fmt.Sprintf("required environment variable %s is not set", name)).
		WithContext("variable", name)
}

// External tool errors

// ToolFailed reports a nonzero exit of an external step together with its
// complete captured output.
func ToolFailed(step string, cause error, output string) *BuildError {
	return Wrap(cause, CategoryExternalTool, step+" failed").
		WithContext("step", step).
		WithOutput(output)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, message)
}
