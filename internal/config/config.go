// Package config holds the engine's runtime configuration: an immutable
// snapshot value, an atomic holder for cross-thread replacement, and the
// loader for the on-disk runtime-config.ini contract.
package config

import (
	"sync/atomic"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/vkey"
)

// Language selects the active input language.
type Language int

const (
	English Language = iota
	Vietnamese
)

// InputType selects the typing scheme.
type InputType int

const (
	Telex InputType = iota
	VNI
	SimpleTelex1
	SimpleTelex2
)

// Snapshot is the flat configuration record the engine reads at event
// boundaries. It is a value type: writers build a new one and swap it
// into a Holder; the engine never mutates it.
type Snapshot struct {
	Language  Language
	InputType InputType
	CodeTable charset.ID

	CheckSpelling       bool
	RestoreIfWrong      bool
	ModernOrthography   bool
	FreeMark            bool
	QuickTelex          bool
	UseMacro            bool
	UseMacroInEnglish   bool
	AutoCapsMacro       bool
	UseSmartSwitchKey   bool
	UpperCaseFirstChar  bool
	AllowConsonantZFWJ  bool
	QuickStartConsonant bool
	QuickEndConsonant   bool
	RememberCode        bool
	RestoreOnEscape     bool
	AutoRestoreEnglish  bool
	SendKeyStepByStep   bool
	PauseKeyEnabled     bool
	FixRecommendBrowser bool

	CustomEscapeKey vkey.KeyID
	PauseKey        vkey.KeyID
	SwitchKeyStatus vkey.Hotkey

	ExcludedApps   []string
	StepByStepApps []string
}

// Default returns the configuration the original ships with: Vietnamese
// Telex to Unicode with spell checking and restore enabled.
func Default() Snapshot {
	return Snapshot{
		Language:           Vietnamese,
		InputType:          Telex,
		CodeTable:          charset.Unicode,
		CheckSpelling:      true,
		RestoreIfWrong:     true,
		ModernOrthography:  true,
		UseMacro:           true,
		AutoCapsMacro:      true,
		UseSmartSwitchKey:  true,
		RestoreOnEscape:    true,
		AutoRestoreEnglish: false,
		CustomEscapeKey:    vkey.KeyEsc,
		PauseKey:           vkey.KeyLeftOption,
	}
}

// Holder publishes snapshots to the engine with a single atomic pointer
// swap. Readers pay one load per event; writers allocate a fresh value.
type Holder struct {
	p atomic.Pointer[Snapshot]
}

// NewHolder starts a holder at the given snapshot.
func NewHolder(s Snapshot) *Holder {
	h := &Holder{}
	h.Store(s)
	return h
}

// Load returns the current snapshot value.
func (h *Holder) Load() Snapshot { return *h.p.Load() }

// Store publishes a new snapshot.
func (h *Holder) Store(s Snapshot) {
	// Normalize out-of-range enums once at the boundary.
	s.CodeTable = charset.Sanitize(s.CodeTable)
	if s.InputType < Telex || s.InputType > SimpleTelex2 {
		s.InputType = Telex
	}
	if s.CustomEscapeKey == 0 {
		s.CustomEscapeKey = vkey.KeyEsc
	}
	h.p.Store(&s)
}
