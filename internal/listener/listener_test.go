package listener

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type echoResponder struct {
	lines []string
}

func (r *echoResponder) Respond(_ context.Context, line string) string {
	r.lines = append(r.lines, line)
	return "ok: " + line
}

type fakeConn struct {
	in  io.Reader
	out bytes.Buffer
}

func (c *fakeConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *fakeConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func TestConnectionManager_Session(t *testing.T) {
	tests := map[string]struct {
		input     string
		expLines  string
		expOutput []string
	}{
		"runs commands until quit": {
			input:     "click\n\n  status  \nquit\nclick\n",
			expLines:  "click|status",
			expOutput: []string{"Welcome", "ok: click\n", "ok: status\n", "Bye!"},
		},
		"ends at eof": {
			input:     "buy farm",
			expLines:  "buy farm",
			expOutput: []string{"ok: buy farm\n"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &echoResponder{}
			conn := &fakeConn{in: strings.NewReader(tt.input)}

			m := NewConnectionManager(r)
			m.AcceptConnection(context.Background(), conn)

			testutil.AssertEqual(t, "lines", strings.Join(r.lines, "|"), tt.expLines)
			for _, exp := range tt.expOutput {
				if !strings.Contains(conn.out.String(), exp) {
					t.Errorf("output %q does not contain %q", conn.out.String(), exp)
				}
			}
		})
	}
}

func TestConnectionManager_Banner(t *testing.T) {
	conn := &fakeConn{in: strings.NewReader("")}

	NewConnectionManager(&echoResponder{}, WithBanner("hi\n")).AcceptConnection(context.Background(), conn)

	testutil.AssertEqual(t, "output", conn.out.String(), "hi\n> ")
}

func TestConnectionManager_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()
	conn := &fakeConn{in: pr}

	NewConnectionManager(&echoResponder{}).AcceptConnection(ctx, conn)

	if !strings.Contains(conn.out.String(), "shutting down") {
		t.Errorf("expected shutdown notice, got %q", conn.out.String())
	}
}

func TestCRLFReadWriter(t *testing.T) {
	conn := &fakeConn{in: strings.NewReader("a\r\nb\rc\n")}
	rw := newCRLFReadWriter(conn)

	buf := make([]byte, 64)
	n, err := rw.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "read", string(buf[:n]), "a\nb\nc\n")

	n, err = rw.Write([]byte("x\ny\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "written length", n, 4)
	testutil.AssertEqual(t, "written", conn.out.String(), "x\r\ny\r\n")
}

func TestLoadHostKey(t *testing.T) {
	signer, err := LoadHostKey(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "key type", signer.PublicKey().Type(), "ssh-ed25519")

	_, err = LoadHostKey([]byte("not a key"))
	testutil.AssertErrorContains(t, err, "parsing host key")
}

type blockingResponder struct{}

func (blockingResponder) Respond(context.Context, string) string { return "" }

func TestSessions_Limit(t *testing.T) {
	s := newSessions(NewConnectionManager(blockingResponder{}), 1)

	pr, pw := io.Pipe()
	first := &fakeConn{in: pr}
	started := make(chan bool, 1)
	go func() { started <- s.run("test", "a", first) }()

	for s.Active() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := &fakeConn{in: strings.NewReader("")}
	testutil.AssertEqual(t, "second served", s.run("test", "b", second), false)
	if !strings.Contains(second.out.String(), "Too many players") {
		t.Errorf("expected refusal, got %q", second.out.String())
	}

	s.stop()
	pw.Close()
	testutil.AssertEqual(t, "first served", <-started, true)
	testutil.AssertEqual(t, "active", s.Active(), 0)
}
