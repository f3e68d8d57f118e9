package offsets

import "fmt"

// NoMatchError reports an XPath expression that matched nothing.
type NoMatchError struct {
	Expression string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no node found for xpath %q", e.Expression)
}

// LookupError reports a matched node whose text form has no exact entry in
// the flattened-text index. This happens when the match spans several text
// fragments (an element with mixed content) or when the evaluator's string
// value differs from any single fragment.
type LookupError struct {
	NodeText string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("matched node text %q not found in flattened text", e.NodeText)
}

// SubstringNotFoundError reports a requested substring absent from the
// matched node's text.
type SubstringNotFoundError struct {
	Substring string
	NodeText  string
}

func (e *SubstringNotFoundError) Error() string {
	return fmt.Sprintf("substring %q not found in node text %q", e.Substring, e.NodeText)
}

// ErrorKind names the resolver error class, for metrics and API payloads.
// Unknown errors (parse or compile failures) report as "invalid".
func ErrorKind(err error) string {
	switch err.(type) {
	case *NoMatchError:
		return "no_match"
	case *LookupError:
		return "lookup_failed"
	case *SubstringNotFoundError:
		return "substring_not_found"
	default:
		return "invalid"
	}
}
