// Package iox provides small I/O resource-cleanup helpers.
package iox

import "io"

// DiscardClose closes c and discards the error. Use in defer statements
// where the close error is unactionable:
//
//	defer iox.DiscardClose(resp.Body)
func DiscardClose(c io.Closer) { _ = c.Close() }
