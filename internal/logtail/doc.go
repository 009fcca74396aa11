// Package logtail reads the tail of the wallweather log file.
//
// # Overview
//
// The dashboard shows the most recent log lines under the status panel. The
// controller writes those lines through logrus into <log_dir>/wallweather.log;
// this package reads them back without loading the whole file.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries and scans the file once:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	3. Return the buffer starting at the oldest retained line
//
// Memory use is O(maxLines) regardless of file size. Lines longer than 1 MiB
// fail the scan.
//
// # Levels
//
// Level pulls the level=... field out of a logfmt line so the UI can pick a
// color. warn is folded into warning, fatal and panic into error.
//
// # Error Handling
//
// Read returns nil, nil for a missing file; the dashboard may start before
// the first line is written. Other errors are returned wrapped.
package logtail
