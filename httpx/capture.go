package httpx

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"net/http"
	"strconv"
)

// Capture is a ResponseWriter that buffers status and body until Commit.
//
// If the downstream handler calls Flush or Hijack, Capture writes out whatever
// it buffered so far and switches to pass-through mode; Passthrough reports
// this so the caller knows it can no longer rewrite the body.
//
// Capture is not safe for concurrent use (same as http.ResponseWriter).
type Capture struct {
	w http.ResponseWriter

	status      int
	wroteHeader bool
	buf         bytes.Buffer

	passthrough bool
	committed   bool
}

// NewCapture wraps w.
func NewCapture(w http.ResponseWriter) *Capture {
	if w == nil {
		panic("httpx: nil ResponseWriter")
	}
	return &Capture{w: w}
}

func (c *Capture) Header() http.Header { return c.w.Header() }

func (c *Capture) WriteHeader(statusCode int) {
	if c.passthrough {
		c.w.WriteHeader(statusCode)
		return
	}
	// Informational responses (e.g. 103 Early Hints) go out immediately.
	if statusCode >= 100 && statusCode < 200 && statusCode != http.StatusSwitchingProtocols {
		c.w.WriteHeader(statusCode)
		return
	}
	if c.wroteHeader {
		return
	}
	c.wroteHeader = true
	c.status = statusCode
}

func (c *Capture) Write(p []byte) (int, error) {
	if c.passthrough {
		return c.w.Write(p)
	}
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	return c.buf.Write(p)
}

// Flush implements http.Flusher. It ends buffering.
func (c *Capture) Flush() {
	if !c.passthrough {
		c.release()
	}
	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker. It ends buffering.
func (c *Capture) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := c.w.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("httpx: underlying ResponseWriter does not support hijacking")
	}
	c.passthrough = true
	c.committed = true
	return h.Hijack()
}

// Unwrap returns the underlying ResponseWriter.
func (c *Capture) Unwrap() http.ResponseWriter { return c.w }

// Passthrough reports whether buffering ended early (Flush / Hijack).
func (c *Capture) Passthrough() bool { return c.passthrough }

// Status returns the buffered status code (200 if the handler only wrote a body,
// 0 if it wrote nothing at all).
func (c *Capture) Status() int { return c.status }

// Body returns the buffered body. The slice is only valid until the next write.
func (c *Capture) Body() []byte { return c.buf.Bytes() }

// Commit sends the buffered status and body to the client, with body replaced by
// the given bytes. A Content-Length header set by the handler is recomputed.
//
// Commit is a no-op in pass-through mode and after a previous Commit.
func (c *Capture) Commit(body []byte) error {
	if c.passthrough || c.committed {
		return nil
	}
	c.committed = true
	if !c.wroteHeader && len(body) == 0 {
		// Nothing written: let net/http produce its implicit 200.
		return nil
	}
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	if c.w.Header().Get("Content-Length") != "" {
		c.w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	}
	c.w.WriteHeader(status)
	if len(body) == 0 {
		return nil
	}
	_, err := c.w.Write(body)
	return err
}

func (c *Capture) release() {
	c.passthrough = true
	if c.committed {
		return
	}
	c.committed = true
	if c.wroteHeader {
		c.w.WriteHeader(c.status)
	}
	if c.buf.Len() > 0 {
		_, _ = c.w.Write(c.buf.Bytes())
		c.buf.Reset()
	}
}
