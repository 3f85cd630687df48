// Package extract implements the schema-driven extraction engine that turns
// CLDR XML subtrees into flat typed tables.
//
// XML members are decoded into generic nested maps (attributes keyed with an
// "@" prefix), walked with dotted paths, and projected into rows through
// per-dataset field specifications.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/clbanning/mxj/v2"
)

func init() {
	// Match the attribute key shape used throughout the extraction routines.
	mxj.SetAttrPrefix("@")
}

// Record is one XML-decoded element: attribute keys carry an "@" prefix,
// child elements appear under their tag name as a nested Record, a list, or
// a text scalar.
type Record = map[string]any

// DecodeXML decodes an XML document into its root Record.
func DecodeXML(r io.Reader) (Record, error) {
	// mxj's non-ByteReader wrapper drops bytes delivered alongside io.EOF
	// (as zip/flate readers do); a bufio.Reader provides a correct ByteReader.
	m, err := mxj.NewMapXmlReader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	return Record(m), nil
}

// traverse resolves a dotted path of nested elements, reporting whether the
// full path exists.
func traverse(rec Record, path string) (any, bool) {
	var cur any = rec
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// requirePath is traverse for paths the dataset schema treats as mandatory.
func requirePath(rec Record, path string) (any, error) {
	v, ok := traverse(rec, path)
	if !ok {
		return nil, fmt.Errorf("missing element %s", path)
	}
	return v, nil
}

// ensureList normalizes a maybe-a-list XML field: a single decoded element
// and a list of elements both come back as a slice.
func ensureList(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{x}
	}
}

// elements coerces a decoded subtree into its list of element Records,
// normalizing the single-element case and skipping non-element content.
func elements(v any) []Record {
	items := ensureList(v)
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// attr returns the string value of an attribute, or "" when absent or not
// a scalar.
func attr(rec Record, name string) string {
	s, _ := rec["@"+name].(string)
	return s
}
