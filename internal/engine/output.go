package engine

import "github.com/username/phtv-core/internal/vkey"

// Code tells the host what to do with the intercepted key event.
type Code int

const (
	DoNothing Code = iota
	WillProcess
	BreakWord
	Restore
	ReplaceMacro
	RestoreAndStartNewSession
)

// ExtCode qualifies the output for host-side bookkeeping.
type ExtCode int

const (
	ExtNone ExtCode = iota
	ExtWordBreak
	ExtDelete
	ExtNormal
	ExtSuppressEmpty
	ExtAutoEnglishRestore
)

// Output is the result of one engine event. The host renders it by
// sending Backspaces physical deletions, then inserting Chars iterated
// in reverse, then—for the restore and macro codes—the raw break key.
// MacroChars are in forward order.
type Output struct {
	Code       Code
	Ext        ExtCode
	Backspaces int

	// Chars is the changed suffix of the composition in
	// reverse-insertion order.
	Chars []vkey.EngCode

	// MacroChars carries the expansion when Code is ReplaceMacro.
	MacroChars []vkey.EngCode
}

// EventKind discriminates engine events.
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	MouseDown
	NewSessionEvent
)

// Event is one host-delivered input event.
type Event struct {
	Kind    EventKind
	Key     vkey.KeyID
	Caps    vkey.CapsState
	Control bool
}

func doNothing() Output { return Output{Code: DoNothing} }

// reversed returns codes in reverse order, as the output contract wants.
func reversed(codes []vkey.EngCode) []vkey.EngCode {
	out := make([]vkey.EngCode, len(codes))
	for i, c := range codes {
		out[len(codes)-1-i] = c
	}
	return out
}
