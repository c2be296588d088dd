// Package game runs a puzzle session: it walks a set of levels, gates the
// simulation on the animation timer, maps keys to intents and drives a
// tcell screen.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"homebound/internal/anim"
	"homebound/internal/config"
	"homebound/internal/gamemap"
	"homebound/internal/level"
	"homebound/internal/sound"
)

// maxMessages bounds the message log kept for the HUD.
const maxMessages = 20

// Options configure a Player.
type Options struct {
	// Tick is how long each simulation step animates before the next runs.
	Tick  time.Duration
	Level level.Options
	// Name identifies the person playing in progress records.
	Name string

	RandomWidth, RandomHeight int

	Rand     *rand.Rand
	Sound    sound.Player
	Progress *ProgressLog
	Logger   *slog.Logger
}

// DefaultOptions returns six steps a second and 16x12 random puzzles.
func DefaultOptions() Options {
	return Options{
		Tick:         time.Second / 6,
		Level:        level.DefaultOptions(),
		RandomWidth:  16,
		RandomHeight: 12,
	}
}

// ApplyConfig copies the tunables from a loaded config file.
func (o *Options) ApplyConfig(cfg config.Config) {
	o.Tick = cfg.Tick()
	o.Level.MaxUndo = cfg.MaxUndo
	o.Level.DeferConsumption = cfg.DeferConsumption
	o.Level.Volume = cfg.EffectiveVolume()
	o.RandomWidth, o.RandomHeight = cfg.RandomWidth, cfg.RandomHeight
}

// Player is one person's session over a level set. It is driven from a
// single goroutine.
type Player struct {
	opts Options
	log  *slog.Logger

	levels  []*level.Level // pristine copies
	index   int
	current *level.Level
	random  bool
	// generated is the untouched copy of a random level, for restarts.
	generated *level.Level

	anims     *anim.Queue
	timer     time.Duration
	cached    gamemap.Direction
	hasCached bool

	moves, undos int
	played       time.Duration

	messages []string
}

// NewPlayer starts a session on the first of levels.
func NewPlayer(levels []*level.Level, opts Options) (*Player, error) {
	if len(levels) == 0 {
		return nil, level.ErrNoLevels
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultOptions().Tick
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Sound == nil {
		opts.Sound = sound.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := &Player{
		opts:   opts,
		log:    opts.Logger,
		levels: levels,
		anims:  anim.NewQueue(opts.Tick),
	}
	p.load(0)
	return p, nil
}

// Level returns the level being played.
func (p *Player) Level() *level.Level { return p.current }

// Index returns the position of the current level in the set.
func (p *Player) Index() int { return p.index }

// Count returns the number of levels in the set.
func (p *Player) Count() int { return len(p.levels) }

// Random reports whether the current level was generated.
func (p *Player) Random() bool { return p.random }

// Moves returns how many steps were accepted on the current level.
func (p *Player) Moves() int { return p.moves }

// Anims returns the animation queue for the renderer.
func (p *Player) Anims() *anim.Queue { return p.anims }

// Messages returns the message log, oldest first.
func (p *Player) Messages() []string { return p.messages }

func (p *Player) addMessage(msg string) {
	p.messages = append(p.messages, msg)
	if len(p.messages) > maxMessages {
		p.messages = p.messages[len(p.messages)-maxMessages:]
	}
}

// start swaps in a fresh level and resets per-level state.
func (p *Player) start(l *level.Level) {
	l.Configure(p.opts.Level, p.opts.Sound, p.log)
	p.current = l
	p.anims.Clear()
	p.timer = 0
	p.hasCached = false
	p.moves, p.undos = 0, 0
	p.played = 0
}

func (p *Player) load(i int) {
	p.index = i
	p.random = false
	p.generated = nil
	p.start(p.levels[i].Clone())
	p.log.Info("level started", "index", i, "name", p.current.Name)
}

// Handle applies one intent. It returns false when the player asked to quit.
func (p *Player) Handle(in Intent) bool {
	if dir, ok := intentToDirection(in); ok {
		// Last key wins until the next tick picks it up.
		p.cached = dir
		p.hasCached = true
		return true
	}

	switch in {
	case IntentQuit:
		return false
	case IntentUndo:
		if p.current.Undo() {
			p.anims.Clear()
			p.timer = 0
			p.hasCached = false
			p.undos++
		} else {
			p.addMessage("Nothing to undo!")
		}
	case IntentConfirm:
		if p.current.HasWon {
			p.next(false)
		} else {
			p.restart()
		}
	case IntentRestart:
		p.restart()
	case IntentNextLevel:
		p.next(false)
	case IntentPrevLevel:
		if p.random {
			p.load(p.index)
		} else if p.index > 0 {
			p.load(p.index - 1)
		} else {
			p.addMessage("No previous level.")
		}
	case IntentRandomize:
		l := randomLevel(p.opts.Rand, p.opts)
		p.generated = l.Clone()
		p.start(l)
		p.random = true
		p.addMessage(fmt.Sprintf("Generated %s.", l.Name))
	}
	return true
}

func (p *Player) restart() {
	if p.random {
		p.start(p.generated.Clone())
		return
	}
	p.load(p.index)
}

// next moves to the following level. With wrap set, the last level is
// followed by the first.
func (p *Player) next(wrap bool) {
	switch {
	case p.random:
		p.load(p.index)
	case p.index < len(p.levels)-1:
		p.load(p.index + 1)
	case wrap:
		p.addMessage("No more levels! Back to the first.")
		p.load(0)
	default:
		p.addMessage("No more levels!")
	}
}

// Tick advances the session by dt. When the current step's animation is
// over it feeds the cached move and runs the next simulation step.
func (p *Player) Tick(dt time.Duration) {
	p.anims.Advance(dt)
	p.played += dt
	p.timer -= dt
	if p.timer > 0 {
		return
	}
	p.timer = 0

	if p.current.HasWon {
		p.complete()
		return
	}

	p.anims.Clear()
	if p.hasCached {
		p.hasCached = false
		if p.current.Input(p.cached) {
			p.moves++
		}
	}
	if p.current.Busy() {
		p.timer = p.opts.Tick
		p.anims.Push(p.current.Update()...)
	}
}

// complete records the win and advances, wrapping after the last level.
func (p *Player) complete() {
	rec := Record{
		Timestamp: time.Now(),
		Player:    p.opts.Name,
		Level:     p.current.Name,
		Index:     p.index,
		Random:    p.random,
		Moves:     p.moves,
		Undos:     p.undos,
		Seconds:   p.played.Seconds(),
	}
	p.log.Info("level complete", "name", rec.Level, "moves", rec.Moves, "undos", rec.Undos)
	if p.opts.Progress != nil {
		p.opts.Progress.Append(rec)
	}
	p.addMessage(fmt.Sprintf("%s complete in %d moves.", rec.Level, rec.Moves))
	p.next(true)
}

// Reload swaps in a new level set, keeping the current index where
// possible. An empty set is ignored.
func (p *Player) Reload(levels []*level.Level) {
	if len(levels) == 0 {
		p.log.Warn("ignoring reload with no levels")
		return
	}
	p.levels = levels
	idx := min(p.index, len(levels)-1)
	p.addMessage("Levels reloaded.")
	if p.random {
		p.index = idx
		return
	}
	p.load(idx)
}
