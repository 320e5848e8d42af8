package tools

import "fmt"

// ValidationError reports a missing required argument.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Error: %s is required", e.Field)
}

// NotFoundError reports a file path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Error: File not found: %s", e.Path)
}

// DependencyError reports that the conversion engine could not be acquired.
// Callers should provision markitdown rather than retry.
type DependencyError struct {
	Err error
}

func (e *DependencyError) Error() string {
	return "Error: markitdown is not installed. Run: pip install markitdown"
}

func (e *DependencyError) Unwrap() error { return e.Err }

// ConversionError carries the engine's failure message verbatim.
type ConversionError struct {
	Source string // "file" or "URL"
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("Error converting %s: %s", e.Source, e.Err.Error())
}

func (e *ConversionError) Unwrap() error { return e.Err }

// UnknownToolError reports a call for a tool that is not in the catalog.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// ErrorKind names the category of err for logs and metrics.
func ErrorKind(err error) string {
	switch err.(type) {
	case nil:
		return ""
	case *ValidationError:
		return "validation"
	case *NotFoundError:
		return "not_found"
	case *DependencyError:
		return "dependency_missing"
	case *ConversionError:
		return "conversion"
	case *UnknownToolError:
		return "unknown_tool"
	default:
		return "internal"
	}
}
