// Package jsonstats analyses JSON documents for editor tab metadata.
//
// It reports validity with a 1-based error location, key count, nesting depth and
// byte size, and provides the formatting helpers behind the editor toolbar
// (format, minify, escape, unescape).
//
// Usage:
//
//	stats := jsonstats.ComputeStats(`{"a":{"b":1}}`)
//	_ = stats.KeyCount // 2
//	pretty, _ := jsonstats.Format(`{"a":1}`, 2)
//	_ = pretty
package jsonstats
