package dict

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind selects which shipped dictionary an operation targets.
type Kind int

const (
	English Kind = iota
	Vietnamese
)

// Dictionary bundles the two shipped tries with the mutable custom
// overlay. It is owned by a single engine instance; the tries themselves
// are immutable after load and safe to share.
type Dictionary struct {
	english    *Trie
	vietnamese *Trie

	customEnglish    map[string]bool
	customVietnamese map[string]bool
}

// New returns an empty dictionary. Every lookup answers false until a
// trie or custom list is loaded; the engine degrades auto-restore to a
// no-op in that state.
func New() *Dictionary {
	return &Dictionary{
		customEnglish:    map[string]bool{},
		customVietnamese: map[string]bool{},
	}
}

// Load replaces one shipped trie from a PHT2 file. The previous trie is
// kept on failure.
func (d *Dictionary) Load(kind Kind, path string) error {
	t, err := Open(path)
	if err != nil {
		return err
	}
	switch kind {
	case English:
		if d.english != nil {
			_ = d.english.Close()
		}
		d.english = t
	case Vietnamese:
		if d.vietnamese != nil {
			_ = d.vietnamese.Close()
		}
		d.vietnamese = t
	default:
		_ = t.Close()
		return fmt.Errorf("dict: unknown kind %d", kind)
	}
	return nil
}

// customEntry is one record of the custom dictionary JSON:
// [{"word": "vinfast", "type": "en"}, {"word": "xin", "type": "vi"}].
type customEntry struct {
	Word string `json:"word"`
	Type string `json:"type"`
}

// LoadCustom replaces the custom overlays from JSON bytes.
func (d *Dictionary) LoadCustom(data []byte) error {
	var entries []customEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("dict: custom dictionary: %w", err)
	}
	en := make(map[string]bool, len(entries))
	vi := make(map[string]bool, len(entries))
	for _, e := range entries {
		word := strings.ToLower(strings.TrimSpace(e.Word))
		if word == "" {
			continue
		}
		switch e.Type {
		case "en":
			en[word] = true
		case "vi":
			vi[word] = true
		}
	}
	d.customEnglish = en
	d.customVietnamese = vi
	return nil
}

// ClearCustom drops the custom overlays.
func (d *Dictionary) ClearCustom() {
	d.customEnglish = map[string]bool{}
	d.customVietnamese = map[string]bool{}
}

// IsEnglish reports membership of a lowercase ASCII word in the English
// trie or the custom English list.
func (d *Dictionary) IsEnglish(word string) bool {
	return d.customEnglish[word] || d.english.Contains(word)
}

// IsVietnamese reports membership in the Vietnamese trie or custom list.
// A missing Vietnamese trie answers false, which lets English restores
// fire on the English dictionary alone.
func (d *Dictionary) IsVietnamese(word string) bool {
	return d.customVietnamese[word] || d.vietnamese.Contains(word)
}

// HasEnglish reports whether any English source is loaded.
func (d *Dictionary) HasEnglish() bool {
	return d.english.Len() > 0 || len(d.customEnglish) > 0
}

// Sizes returns the word counts of the four sources.
func (d *Dictionary) Sizes() (english, vietnamese, customEn, customVi int) {
	return d.english.Len(), d.vietnamese.Len(),
		len(d.customEnglish), len(d.customVietnamese)
}

// Close releases both mapped tries.
func (d *Dictionary) Close() error {
	var first error
	if err := d.english.Close(); err != nil {
		first = err
	}
	if err := d.vietnamese.Close(); err != nil && first == nil {
		first = err
	}
	d.english = nil
	d.vietnamese = nil
	return first
}
