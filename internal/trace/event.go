package trace

import "time"

// Kind says what an Event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint     // instant, no span of its own
	KindHeartbeat // periodic liveness signal
	KindFailure   // recorded at LevelError and above
)

// Scope is how coarse an event is; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI command or REPL line
	ScopePass                    // tokenize, parse, eval
	ScopeFile                    // one file of a batch run
	ScopeNode                    // builtin call
)

var (
	kindNames  = [...]string{"unknown", "begin", "end", "point", "heartbeat", "failure"}
	scopeNames = [...]string{"unknown", "driver", "pass", "file", "node"}
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // порядковый номер, монотонный на процесс
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 у корневых
	GID      uint64 // горутина, для параллельных батчей
	Name     string // "parse", "file:a.lisp", "call:+"
	Detail   string
	Extra    map[string]string
}
