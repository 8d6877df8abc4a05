package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/gliderlabs/ssh"
	"golang.org/x/term"

	"github.com/wricardo/klondike/transport/console"
)

const (
	ServerIdleTimeout = 10 * time.Minute
)

// Config configures the SSH front end.
type Config struct {
	Addr string

	// HostKeyFile is a PEM private key. A key is generated on start-up when
	// it is empty.
	HostKeyFile string

	// Password, when set, is required from every client. Otherwise clients
	// connect without authentication.
	Password string

	Console console.Options
}

// Server gives every SSH connection its own console game.
type Server struct {
	cfg    Config
	server *ssh.Server
}

// NewServer builds the SSH server. Nothing listens until ListenAndServe or
// Serve is called.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Console.Deals == nil {
		return nil, errors.New("ssh server needs a deal source")
	}

	s := &Server{cfg: cfg}
	s.server = &ssh.Server{
		Addr:        cfg.Addr,
		IdleTimeout: ServerIdleTimeout,
		Handler:     s.handle,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
	}
	if cfg.Password != "" {
		s.server.PasswordHandler = func(ctx ssh.Context, password string) bool {
			return password == cfg.Password
		}
	}

	if cfg.HostKeyFile != "" {
		if err := s.server.SetOption(ssh.HostKeyFile(cfg.HostKeyFile)); err != nil {
			return nil, fmt.Errorf("failed to load host key: %w", err)
		}
	}
	return s, nil
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	log.Printf("SSH server listening on %s", s.cfg.Addr)
	return s.server.ListenAndServe()
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Shutdown stops accepting connections and waits for open ones to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Close drops every connection immediately.
func (s *Server) Close() error {
	return s.server.Close()
}

func (s *Server) handle(sess ssh.Session) {
	ptyReq, winCh, isPty := sess.Pty()
	log.Printf("[SSH] %s connected from %s (pty=%v)", sess.User(), sess.RemoteAddr(), isPty)

	var in io.Reader = sess
	var out io.Writer = sess
	mode := console.ColorNever

	if isPty {
		// A pty sends raw keystrokes, so line editing and echo happen here.
		t := term.NewTerminal(sess, "")
		t.SetSize(ptyReq.Window.Width, ptyReq.Window.Height)
		go func() {
			for win := range winCh {
				t.SetSize(win.Width, win.Height)
			}
		}()
		in, out = &lineReader{t: t}, t
		if ptyReq.Term != "dumb" {
			mode = console.ColorAlways
		}
	}

	c := console.New(in, console.NewRenderer(out, mode), s.cfg.Console)
	if err := c.Run(sess.Context()); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[SSH] session for %s ended: %v", sess.User(), err)
		sess.Exit(1)
		return
	}
	log.Printf("[SSH] %s disconnected", sess.User())
	sess.Exit(0)
}

// lineReader turns term.Terminal lines back into a byte stream.
type lineReader struct {
	t   *term.Terminal
	buf []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		line, err := r.t.ReadLine()
		if err != nil {
			return 0, err
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
