// homebound-server starts an SSH server that gives every connecting
// terminal its own puzzle session over a shared level file. Build:
//
//	go build -o homebound-server ./cmd/server
//
// Usage:
//
//	./homebound-server [--port 2222] [--key server_host_key] [--levels levels/levels.txt]
//
// Connect from any terminal:
//
//	ssh -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"log/slog"
	mrand "math/rand"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"homebound/internal/config"
	"homebound/internal/game"
	"homebound/internal/level"
	internalssh "homebound/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	levelsFile := flag.String("levels", "levels/levels.txt", "Level file shared by every session")
	configFile := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if lvl, err := cfg.Level(); err == nil {
		slog.SetLogLoggerLevel(lvl)
	}

	lib, err := newLibrary(*levelsFile)
	if err != nil {
		log.Fatalf("load levels: %v", err)
	}
	log.Printf("Loaded %d levels from %s", len(lib.get()), *levelsFile)

	ctx := context.Background()
	if reloads, err := game.Watch(ctx, *levelsFile, slog.Default()); err != nil {
		log.Printf("Level hot reload disabled: %v", err)
	} else {
		go lib.follow(reloads)
	}

	progress, err := game.NewProgressLog(slog.Default())
	if err != nil {
		log.Printf("Progress log disabled: %v", err)
	}

	signer := loadOrCreateHostKey(*keyFile)
	srv := &gossh.Server{
		Addr: fmt.Sprintf(":%d", *port),
		Handler: func(s gossh.Session) {
			handleSession(s, lib, cfg, progress)
		},
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication — appropriate for a private home server.
		// Add gossh.PublicKeyAuth or gossh.PasswordAuth options for real auth.
		HostSigners: []gossh.Signer{signer},
	}

	log.Printf("homebound SSH server listening on :%d", *port)
	log.Printf("Connect with:  ssh -p %d -o StrictHostKeyChecking=no localhost", *port)
	log.Fatal(srv.ListenAndServe())
}

// ─── level library ──────────────────────────────────────────────────────────

// library holds the current level set and fans reloads out to the live
// sessions. Each session plays its own clones.
type library struct {
	mu     sync.Mutex
	levels []*level.Level
	subs   map[chan []*level.Level]struct{}
}

func newLibrary(path string) (*library, error) {
	levels, err := game.LoadLevels(path)
	if err != nil {
		return nil, err
	}
	return &library{levels: levels, subs: make(map[chan []*level.Level]struct{})}, nil
}

func (l *library) get() []*level.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.levels
}

// subscribe returns a channel receiving every future reload.
func (l *library) subscribe() chan []*level.Level {
	ch := make(chan []*level.Level, 1)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch
}

func (l *library) unsubscribe(ch chan []*level.Level) {
	l.mu.Lock()
	delete(l.subs, ch)
	l.mu.Unlock()
}

// follow publishes reloads until the watcher closes.
func (l *library) follow(reloads <-chan []*level.Level) {
	for levels := range reloads {
		l.mu.Lock()
		l.levels = levels
		for ch := range l.subs {
			// Drop a stale pending set in favour of the newest one.
			select {
			case <-ch:
			default:
			}
			ch <- levels
		}
		n := len(l.subs)
		l.mu.Unlock()
		log.Printf("Levels reloaded (%d levels, %d sessions)", len(levels), n)
	}
}

// ─── sessions ───────────────────────────────────────────────────────────────

// allowedTerms lists the TERM values a client may ask for. Anything else
// falls back to xterm-256color.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

// maxNameBytes bounds a player name in logs and progress records.
const maxNameBytes = 16

// sanitizeName strips control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if b.Len()+len(string(r)) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// handleSession is the gliderlabs SSH handler for one connection.
// It blocks for the duration of the connection so the SSH session stays open.
func handleSession(s gossh.Session, lib *library, cfg config.Config, progress *game.ProgressLog) {
	tty, pty, ok := internalssh.NewTty(s)
	if !ok {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	// Determine the terminal type from the session environment.
	term := "xterm-256color"
	if allowedTerms[pty.Term] {
		term = pty.Term
	}
	for _, env := range s.Environ() {
		if v, ok := strings.CutPrefix(env, "TERM="); ok && allowedTerms[v] {
			term = v
			break
		}
	}

	// Create a tcell screen backed by this SSH session.
	// TERM must be set in the process environment before NewTerminfoScreenFromTty.
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}
	defer screen.Fini()

	name := sanitizeName(s.User())
	if name == "" {
		name = "guest"
	}
	logger := slog.Default().With("player", name, "remote", s.RemoteAddr().String())

	opts := game.DefaultOptions()
	opts.ApplyConfig(cfg)
	opts.Rand = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	opts.Progress = progress
	opts.Logger = logger
	opts.Name = name

	p, err := game.NewPlayer(lib.get(), opts)
	if err != nil {
		fmt.Fprintf(s, "No levels: %v\n", err)
		return
	}

	reloads := lib.subscribe()
	defer lib.unsubscribe(reloads)

	log.Printf("%s connected from %s", name, s.RemoteAddr())
	game.Run(s.Context(), screen, p, reloads)
	log.Printf("%s disconnected", name)
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Printf("Loaded host key from %s", path)
			return signer
		}
	}

	log.Printf("Generating new ed25519 host key → %s", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("generate host key: %v", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		log.Fatalf("create signer: %v", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "homebound server"); err == nil {
		_ = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0600)
	}
	return signer
}
