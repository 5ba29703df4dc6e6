// Package filewatch flags file-backed tabs as modified when their file
// changes on disk.
//
// The watcher follows the session: every published state snapshot resyncs
// the set of watched files. Parent directories are watched rather than the
// files themselves, so editors that save by rename are still seen.
package filewatch
