// Package monitoring holds the diagnostic logger shared by the point cloud
// packages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced by SetLogger so tests or host applications can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Opf logs a message about one container operation, prefixed with the
// operation name so log lines can be grepped by operation.
func Opf(op, format string, v ...interface{}) {
	Logf("pointcloud: "+op+": "+format, v...)
}
