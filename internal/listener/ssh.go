package listener

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/crypto/ssh"
)

type SshListener struct {
	port     uint16
	sessions *sessions
	config   *ssh.ServerConfig
}

// NewSshListener serves the console over ssh. Any user name is accepted
// without authentication; the game has no accounts.
func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer, opts ...ListenerOpt) *SshListener {
	cfg := newListenerConfig(opts)

	config := &ssh.ServerConfig{NoClientAuth: true}
	config.AddHostKey(hostKey)

	return &SshListener{
		port:     port,
		sessions: newSessions(cm, cfg.maxSessions),
		config:   config,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for ssh", "port", l.port)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				l.sessions.stop()
				return nil
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		go l.serve(conn)
	}
}

func (l *SshListener) serve(conn net.Conn) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		slog.Warn("ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()

	// Closing the connection ends the channel loop below.
	stop := context.AfterFunc(l.sessions.ctx, func() { sshConn.Close() })
	defer stop()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			slog.Warn("accepting ssh channel", "error", err)
			continue
		}

		if !awaitShell(l.sessions.ctx, requests) {
			ch.Close()
			continue
		}

		l.sessions.run("ssh", conn.RemoteAddr().String(), newCRLFReadWriter(ch))
		ch.Close()
	}
}

// awaitShell answers channel requests until the client asks for a shell.
// Clients only forward input once that request is answered.
func awaitShell(ctx context.Context, in <-chan *ssh.Request) bool {
	ready := make(chan struct{})
	go func() {
		shell := false
		for req := range in {
			// pty-req is refused too; without a pty the client echoes and
			// buffers lines itself.
			ok := req.Type == "shell" && !shell
			req.Reply(ok, nil)
			if ok {
				shell = true
				close(ready)
			}
		}
	}()

	select {
	case <-ready:
		return true
	case <-ctx.Done():
		return false
	}
}

// LoadHostKey parses a PEM private key, or generates an ephemeral ed25519
// key when pem is empty.
func LoadHostKey(pem []byte) (ssh.Signer, error) {
	if len(pem) > 0 {
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing host key: %w", err)
		}
		return signer, nil
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating host key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, fmt.Errorf("creating host key signer: %w", err)
	}
	return signer, nil
}
