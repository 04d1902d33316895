package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/ini.v1"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/vkey"
)

// RuntimeDir resolves the user data directory holding runtime-config.ini
// and runtime-macros.tsv. PHTV_RUNTIME_DIR overrides the XDG location.
func RuntimeDir() string {
	if dir := os.Getenv("PHTV_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, "phtv")
}

// RuntimeConfigPath returns the runtime config file location.
func RuntimeConfigPath() string {
	return filepath.Join(RuntimeDir(), "runtime-config.ini")
}

// RuntimeMacrosPath returns the macro text file location.
func RuntimeMacrosPath() string {
	return filepath.Join(RuntimeDir(), "runtime-macros.tsv")
}

// splitEscapedList splits a |-separated list, decoding \n \t \\ and escaped
// separators; elements are trimmed and empty ones dropped.
func splitEscapedList(value string) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if escaped {
			switch c {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			default:
				cur.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '|':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	flush()
	return out
}

// joinEscapedList is the inverse of splitEscapedList.
func joinEscapedList(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "|", `\|`)
		parts = append(parts, r.Replace(v))
	}
	return strings.Join(parts, "|")
}

func boolKey(sec *ini.Section, name string, fallback bool) bool {
	if !sec.HasKey(name) {
		return fallback
	}
	return sec.Key(name).MustInt(boolToInt(fallback)) != 0
}

func intKey(sec *ini.Section, name string, fallback int) int {
	if !sec.HasKey(name) {
		return fallback
	}
	return sec.Key(name).MustInt(fallback)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LoadRuntime reads the runtime config file into a snapshot, starting
// from the given defaults. A missing file returns the defaults; a
// malformed file returns an error and the caller keeps its previous
// snapshot.
func LoadRuntime(path string, defaults Snapshot) (Snapshot, error) {
	s := defaults

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return defaults, fmt.Errorf("config: %w", err)
	}
	sec := f.Section("")

	if intKey(sec, "language", boolToInt(s.Language == Vietnamese)) != 0 {
		s.Language = Vietnamese
	} else {
		s.Language = English
	}
	s.InputType = InputType(intKey(sec, "input_type", int(s.InputType)))
	s.CodeTable = charset.ID(intKey(sec, "code_table", int(s.CodeTable)))
	s.SwitchKeyStatus = vkey.Hotkey(intKey(sec, "switch_key_status", int(s.SwitchKeyStatus)))
	s.CheckSpelling = boolKey(sec, "check_spelling", s.CheckSpelling)
	s.RestoreIfWrong = boolKey(sec, "restore_if_wrong_spelling", s.RestoreIfWrong)
	s.ModernOrthography = boolKey(sec, "use_modern_orthography", s.ModernOrthography)
	s.FreeMark = boolKey(sec, "free_mark", s.FreeMark)
	s.QuickTelex = boolKey(sec, "quick_telex", s.QuickTelex)
	s.UseMacro = boolKey(sec, "use_macro", s.UseMacro)
	s.UseMacroInEnglish = boolKey(sec, "use_macro_in_english_mode", s.UseMacroInEnglish)
	s.AutoCapsMacro = boolKey(sec, "auto_caps_macro", s.AutoCapsMacro)
	s.UseSmartSwitchKey = boolKey(sec, "use_smart_switch_key", s.UseSmartSwitchKey)
	s.UpperCaseFirstChar = boolKey(sec, "upper_case_first_char", s.UpperCaseFirstChar)
	s.AllowConsonantZFWJ = boolKey(sec, "allow_consonant_zfwj", s.AllowConsonantZFWJ)
	s.QuickStartConsonant = boolKey(sec, "quick_start_consonant", s.QuickStartConsonant)
	s.QuickEndConsonant = boolKey(sec, "quick_end_consonant", s.QuickEndConsonant)
	s.RememberCode = boolKey(sec, "remember_code", s.RememberCode)
	s.RestoreOnEscape = boolKey(sec, "restore_on_escape", s.RestoreOnEscape)
	s.AutoRestoreEnglish = boolKey(sec, "auto_restore_english_word", s.AutoRestoreEnglish)
	s.SendKeyStepByStep = boolKey(sec, "send_key_step_by_step", s.SendKeyStepByStep)
	s.PauseKeyEnabled = boolKey(sec, "pause_key_enabled", s.PauseKeyEnabled)
	s.FixRecommendBrowser = boolKey(sec, "fix_recommend_browser", s.FixRecommendBrowser)

	if k := intKey(sec, "custom_escape_key", int(s.CustomEscapeKey)); k > 0 {
		s.CustomEscapeKey = vkey.KeyID(k)
	}
	if k := intKey(sec, "pause_key", int(s.PauseKey)); k > 0 {
		s.PauseKey = vkey.KeyID(k)
	}
	if sec.HasKey("excluded_apps") {
		s.ExcludedApps = splitEscapedList(sec.Key("excluded_apps").String())
	}
	if sec.HasKey("step_by_step_apps") {
		s.StepByStepApps = splitEscapedList(sec.Key("step_by_step_apps").String())
	}

	return s, nil
}

// PersistLanguage rewrites only the language key of the runtime config,
// keeping every other line intact, through a temp-file rename.
func PersistLanguage(path string, lang Language) error {
	value := boolToInt(lang == Vietnamese)

	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	found := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed[0] == '#' || trimmed[0] == ';' {
			continue
		}
		sep := strings.IndexByte(trimmed, '=')
		if sep <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(trimmed[:sep]))
		if key == "language" {
			lines[i] = fmt.Sprintf("language=%d", value)
			found = true
		}
	}
	if !found {
		lines = append(lines, fmt.Sprintf("language=%d", value))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	tmp := path + ".tmp"
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
