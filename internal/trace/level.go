package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // failures only
	LevelPhase        // driver runs and passes
	LevelDetail       // + one span per file of a batch
	LevelDebug        // + one point per builtin call
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

// deepest scope each level lets through; error and off admit no spans
var levelScopes = []Scope{0, 0, ScopePass, ScopeFile, ScopeNode}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, in any case.
func ParseLevel(s string) (Level, error) {
	i := slices.Index(levelNames, strings.ToLower(s))
	if i < 0 {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
	}
	return Level(i), nil
}

// ShouldEmit reports whether spans and points of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScopes) && scope != 0 && scope <= levelScopes[l]
}

// accepts adds the kinds that bypass scope filtering: failures reach every
// level from error up, heartbeats every enabled level.
func (l Level) accepts(ev *Event) bool {
	switch ev.Kind {
	case KindHeartbeat:
		return l > LevelOff
	case KindFailure:
		return l >= LevelError
	}
	return l.ShouldEmit(ev.Scope)
}
