package jsonstats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
)

// DefaultIndent is the indent width used when callers pass a negative value.
const DefaultIndent = 2

// ErrInvalidJSON wraps parse failures returned by Format and Minify.
var ErrInvalidJSON = errors.New("invalid JSON")

// Format pretty-prints content with the given indent width. An indent of zero
// minifies.
func Format(content string, indent int) (string, error) {
	if indent < 0 {
		indent = DefaultIndent
	}
	if err := requireValid(content); err != nil {
		return "", err
	}
	if indent == 0 {
		return string(pretty.Ugly([]byte(content))), nil
	}

	out := pretty.PrettyOptions([]byte(content), &pretty.Options{
		Indent: strings.Repeat(" ", indent),
	})
	return strings.TrimSuffix(string(out), "\n"), nil
}

// Minify strips all insignificant whitespace.
func Minify(content string) (string, error) {
	if err := requireValid(content); err != nil {
		return "", err
	}
	return string(pretty.Ugly([]byte(content))), nil
}

// Escape encodes content as a JSON string literal, quotes included.
func Escape(content string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(content); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Unescape decodes a JSON string literal back into plain text.
func Unescape(content string) (string, error) {
	var out string
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return "", fmt.Errorf("unescape failed: %s", describeError(err))
	}
	return out, nil
}

func requireValid(content string) error {
	result := Validate(content)
	if result.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidJSON, FormatError(result))
}
