package listener

import (
	"bytes"
	"io"
)

var (
	crlf = []byte("\r\n")
	cr   = []byte("\r")
	lf   = []byte("\n")
)

// crlfConn normalizes console line endings. Input arrives as \r\n from
// telnet and bare \r from some ssh clients; output must be \r\n.
type crlfConn struct {
	rw io.ReadWriter
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfConn{rw: rw}
}

func (c *crlfConn) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n > 0 {
		data := bytes.ReplaceAll(p[:n], crlf, lf)
		data = bytes.ReplaceAll(data, cr, lf)
		n = copy(p, data)
	}
	return n, err
}

// Write reports len(p) on success so the expansion is invisible to callers.
func (c *crlfConn) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, lf, crlf))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
