package parser

import "fmt"

// StructuralError reports a required structural marker missing from a
// page. The crawler treats it as fatal: without the marker the page
// cannot be interpreted.
type StructuralError struct {
	Marker string
	URL    string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("page structure: missing %s on %s", e.Marker, e.URL)
}
