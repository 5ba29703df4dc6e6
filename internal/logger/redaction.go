package logger

import (
	"io"
	"regexp"
)

// Redactor masks user data in log lines. Session state carries file paths
// and whole documents, neither of which belongs in a log file.
type Redactor struct {
	patterns []replacement
}

type replacement struct {
	re   *regexp.Regexp
	with string
}

// NewRedactor creates a new redactor with default patterns
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []replacement{
			// JSON string fields holding paths or documents
			{regexp.MustCompile(`"(filePath|path|file|content)"\s*:\s*"(?:[^"\\]|\\.)*"`), `"$1":"[REDACTED]"`},

			// key=value pairs from console output
			{regexp.MustCompile(`\b(filePath|path|file|content)=("(?:[^"\\]|\\.)*"|\S+)`), `$1=[REDACTED]`},

			// home directories
			{regexp.MustCompile(`/(?:home|Users)/[^/\s"]+`), `~`},
			{regexp.MustCompile(`(?i)[a-z]:\\\\Users\\\\[^\\\s"]+`), `~`},
		},
	}
}

// AddPattern adds a custom redaction pattern
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, replacement{re: re, with: "[REDACTED]"})
	return nil
}

// Redact masks sensitive information in a string
func (r *Redactor) Redact(s string) string {
	result := s
	for _, p := range r.patterns {
		result = p.re.ReplaceAllString(result, p.with)
	}
	return result
}

// Wrap wraps an io.Writer to redact sensitive information
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{
		writer:   w,
		redactor: r,
	}
}

type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

// Write reports len(p) on success so callers do not treat a shorter
// redacted line as a short write.
func (w *redactingWriter) Write(p []byte) (int, error) {
	redacted := w.redactor.Redact(string(p))
	if _, err := w.writer.Write([]byte(redacted)); err != nil {
		return 0, err
	}
	return len(p), nil
}
