package jsonstats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ValidationResult describes whether a document parses and where it fails.
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ErrorLine    int    `json:"errorLine,omitempty"`   // 1-based
	ErrorColumn  int    `json:"errorColumn,omitempty"` // 1-based
}

// Stats is the analysis result stored on a tab.
type Stats struct {
	Valid     bool              `json:"valid"`
	KeyCount  int               `json:"keyCount"`
	Depth     int               `json:"depth"`
	ByteSize  int               `json:"byteSize"`
	ErrorInfo *ValidationResult `json:"errorInfo,omitempty"`
}

// Clone returns a deep copy of s. A nil receiver yields nil.
func (s *Stats) Clone() *Stats {
	if s == nil {
		return nil
	}
	out := *s
	if s.ErrorInfo != nil {
		info := *s.ErrorInfo
		out.ErrorInfo = &info
	}
	return &out
}

// Validate parses content and reports the first syntax error.
func Validate(content string) ValidationResult {
	var v interface{}
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		line, col := errorLocation(content, err)
		return ValidationResult{
			Valid:        false,
			ErrorMessage: describeError(err),
			ErrorLine:    line,
			ErrorColumn:  col,
		}
	}
	return ValidationResult{Valid: true}
}

// ComputeStats analyses content. Invalid documents report zero keys and depth
// together with the validation error.
func ComputeStats(content string) Stats {
	result := Validate(content)
	if !result.Valid {
		return Stats{
			Valid:     false,
			ByteSize:  len(content),
			ErrorInfo: &result,
		}
	}

	root := gjson.Parse(content)
	return Stats{
		Valid:    true,
		KeyCount: countKeys(root),
		Depth:    depth(root),
		ByteSize: len(content),
	}
}

func countKeys(value gjson.Result) int {
	count := 0
	switch {
	case value.IsObject():
		value.ForEach(func(_, child gjson.Result) bool {
			count += 1 + countKeys(child)
			return true
		})
	case value.IsArray():
		value.ForEach(func(_, child gjson.Result) bool {
			count += countKeys(child)
			return true
		})
	}
	return count
}

func depth(value gjson.Result) int {
	if !value.IsObject() && !value.IsArray() {
		return 0
	}
	deepest := 0
	value.ForEach(func(_, child gjson.Result) bool {
		if d := depth(child); d > deepest {
			deepest = d
		}
		return true
	})
	return 1 + deepest
}

// errorLocation converts a decoder error into a 1-based line and column.
func errorLocation(content string, err error) (int, int) {
	offset := int64(len(content))

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}

	prefix := content[:offset]
	line := strings.Count(prefix, "\n") + 1
	col := int(offset) - (strings.LastIndex(prefix, "\n") + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

func describeError(err error) string {
	msg := err.Error()
	if msg == "unexpected end of JSON input" {
		return "EOF while parsing a value"
	}
	return strings.TrimPrefix(msg, "json: ")
}

// FormatError renders an error with its location, as shown in the status bar.
func FormatError(result ValidationResult) string {
	if result.Valid {
		return ""
	}
	return fmt.Sprintf("Line %d, Column %d: %s", result.ErrorLine, result.ErrorColumn, result.ErrorMessage)
}
