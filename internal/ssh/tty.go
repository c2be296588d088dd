// Package ssh adapts a gliderlabs/ssh session into a tcell terminal so each
// connection can run its own puzzle screen.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// Tty implements tcell.Tty on top of an SSH session with a PTY.
type Tty struct {
	session gossh.Session
	mu      sync.Mutex
	window  gossh.Window
	winCh   <-chan gossh.Window
	cb      func() // resize callback registered by tcell
	watch   sync.Once
}

// NewTty wraps s. It reports false when the client did not request a PTY,
// in which case there is nothing to draw on.
func NewTty(s gossh.Session) (*Tty, gossh.Pty, bool) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, pty, false
	}
	return newTty(s, pty.Window, winCh), pty, true
}

func newTty(s gossh.Session, win gossh.Window, winCh <-chan gossh.Window) *Tty {
	return &Tty{session: s, window: win, winCh: winCh}
}

// Read reads keyboard input from the client.
func (t *Tty) Read(b []byte) (int, error) { return t.session.Read(b) }

// Write sends rendered output to the client.
func (t *Tty) Write(b []byte) (int, error) { return t.session.Write(b) }

// Close closes the SSH channel.
func (t *Tty) Close() error { return t.session.Close() }

// Start, Stop and Drain are no-ops: the channel is already open, the
// handler goroutine owns its lifetime and writes are not buffered.
func (t *Tty) Start() error { return nil }
func (t *Tty) Stop() error  { return nil }
func (t *Tty) Drain() error { return nil }

// WindowSize returns the latest terminal size the client reported.
func (t *Tty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers cb for window changes. The first call starts a
// goroutine that follows the window channel until the session ends; later
// calls only replace the callback.
func (t *Tty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.cb = cb
	t.mu.Unlock()

	t.watch.Do(func() {
		go func() {
			for win := range t.winCh {
				t.mu.Lock()
				t.window = win
				localCb := t.cb
				t.mu.Unlock()
				if localCb != nil {
					localCb()
				}
			}
		}()
	})
}
