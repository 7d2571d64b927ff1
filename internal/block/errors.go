package block

import "fmt"

// ParseError reports malformed document input. Offset is the byte
// offset of the fault where the decoder reports one, -1 otherwise.
type ParseError struct {
	Path   string
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("parse %s: offset %d: %v", e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidQueryError reports a search query that cannot be executed,
// such as an empty search term.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return "invalid query: " + e.Reason
}
