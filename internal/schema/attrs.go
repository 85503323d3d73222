package schema

import (
	"regexp"
)

// cborAttrRegex matches a #[cbor(...)] attribute and captures its arguments.
// Whitespace is tolerated everywhere rustc would accept it.
var cborAttrRegex = regexp.MustCompile(`^\s*#\s*\[\s*cbor\s*\((.*)\)\s*\]\s*$`)

// renameArgRegex matches a rename = "name" argument, with single or double quotes.
var renameArgRegex = regexp.MustCompile(`(?:^|[\s,])rename\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// ParseRename returns the wire name declared by the first cbor rename
// attribute in attrs. Later rename attributes are ignored.
func ParseRename(attrs []string) (string, bool) {
	for _, attr := range attrs {
		if name, ok := parseRenameAttr(attr); ok {
			return name, true
		}
	}
	return "", false
}

func parseRenameAttr(attr string) (string, bool) {
	m := cborAttrRegex.FindStringSubmatch(attr)
	if m == nil {
		return "", false
	}
	arg := renameArgRegex.FindStringSubmatch(m[1])
	if arg == nil {
		return "", false
	}
	if arg[1] != "" {
		return arg[1], true
	}
	if arg[2] != "" {
		return arg[2], true
	}
	return "", false
}
