package game

import (
	"github.com/gdamore/tcell/v2"

	"homebound/internal/gamemap"
)

// Intent is a player request, independent of the key that produced it.
type Intent uint8

const (
	IntentNone Intent = iota
	IntentUp
	IntentDown
	IntentLeft
	IntentRight
	IntentConfirm
	IntentUndo
	IntentRestart
	IntentNextLevel
	IntentPrevLevel
	IntentRandomize
	IntentHelp
	IntentQuit
)

// keyToIntent maps a tcell key event to an intent.
func keyToIntent(ev *tcell.EventKey) Intent {
	switch ev.Key() {
	case tcell.KeyUp:
		return IntentUp
	case tcell.KeyDown:
		return IntentDown
	case tcell.KeyRight:
		return IntentRight
	case tcell.KeyLeft:
		return IntentLeft
	case tcell.KeyEnter:
		return IntentConfirm
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return IntentUndo
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return IntentQuit
	}

	switch ev.Rune() {
	case 'k', 'K', 'w', 'W':
		return IntentUp
	case 'j', 'J', 's', 'S':
		return IntentDown
	case 'l', 'L', 'd', 'D':
		return IntentRight
	case 'h', 'H', 'a', 'A':
		return IntentLeft
	case ' ':
		return IntentConfirm
	case 'u', 'U', 'z', 'Z':
		return IntentUndo
	case 'r', 'R':
		return IntentRestart
	case 'n', 'N', ']':
		return IntentNextLevel
	case 'p', 'P', '[':
		return IntentPrevLevel
	case 'x', 'X':
		return IntentRandomize
	case '?':
		return IntentHelp
	case 'q', 'Q':
		return IntentQuit
	}
	return IntentNone
}

// intentToDirection converts a movement intent to a grid direction.
func intentToDirection(in Intent) (gamemap.Direction, bool) {
	switch in {
	case IntentUp:
		return gamemap.Up, true
	case IntentDown:
		return gamemap.Down, true
	case IntentLeft:
		return gamemap.Left, true
	case IntentRight:
		return gamemap.Right, true
	}
	return 0, false
}
