// The daemon exports the composition engine over the session bus for an
// IBus/Fcitx-style frontend. All engine calls run on the D-Bus dispatch
// goroutine, which satisfies the engine's single-threaded contract.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/godbus/dbus/v5"
	"github.com/lmittmann/tint"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/config"
	"github.com/username/phtv-core/internal/dict"
	"github.com/username/phtv-core/internal/engine"
	"github.com/username/phtv-core/internal/macro"
	"github.com/username/phtv-core/internal/smartswitch"
	"github.com/username/phtv-core/internal/vkey"
)

const (
	serviceName = "com.github.phtv.core"
	objectPath  = "/Engine"
)

// Settings is the daemon's own host configuration, separate from the
// engine's runtime config contract.
type Settings struct {
	EnglishDict    string `toml:"english_dict"`
	VietnameseDict string `toml:"vietnamese_dict"`
	SmartSwitch    string `toml:"smart_switch_file"`
	LogLevel       string `toml:"log_level"`
}

func defaultSettings() Settings {
	return Settings{
		EnglishDict:    filepath.Join(config.RuntimeDir(), "en_dict.bin"),
		VietnameseDict: filepath.Join(config.RuntimeDir(), "vi_dict.bin"),
		SmartSwitch:    filepath.Join(config.RuntimeDir(), "smart-switch.bin"),
		LogLevel:       "info",
	}
}

func loadSettings(log *slog.Logger) Settings {
	s := defaultSettings()
	path := filepath.Join(xdg.ConfigHome, "phtv", "daemon.toml")
	if _, err := toml.DecodeFile(path, &s); err != nil && !os.IsNotExist(err) {
		log.Warn("daemon.toml unreadable, using defaults", "path", path, "err", err)
	}
	return s
}

// Service is the D-Bus object the frontend talks to.
type Service struct {
	engine *engine.Engine
	store  *smartswitch.Store
	log    *slog.Logger

	storePath string
}

// ProcessKey handles one key event.
// caps: 0 none, 1 shift, 2 caps lock, 3 both. down: key transition.
func (s *Service) ProcessKey(keyID uint16, caps uint8, control bool, down bool) (uint8, uint8, uint8, []uint32, []uint32, *dbus.Error) {
	kind := engine.KeyDown
	if !down {
		kind = engine.KeyUp
	}
	out := s.engine.HandleEvent(engine.Event{
		Kind:    kind,
		Key:     vkey.KeyID(keyID),
		Caps:    vkey.CapsState(caps),
		Control: control,
	})

	chars := make([]uint32, len(out.Chars))
	for i, c := range out.Chars {
		chars[i] = uint32(c)
	}
	macroChars := make([]uint32, len(out.MacroChars))
	for i, c := range out.MacroChars {
		macroChars[i] = uint32(c)
	}

	s.log.Debug("key",
		"key", keyID,
		"code", int(out.Code),
		"ext", int(out.Ext),
		"backspaces", out.Backspaces,
		"chars", len(chars))

	return uint8(out.Code), uint8(out.Ext), uint8(out.Backspaces), chars, macroChars, nil
}

// NotifyMouseDown resets the composition after a click.
func (s *Service) NotifyMouseDown() *dbus.Error {
	s.engine.NotifyMouseDown()
	return nil
}

// NewSession discards the current composition.
func (s *Service) NewSession() *dbus.Error {
	s.engine.NewSession()
	return nil
}

// RestoreRawKeys manually restores the literal keystrokes.
func (s *Service) RestoreRawKeys() (uint8, uint8, []uint32, *dbus.Error) {
	out, _ := s.engine.RestoreRawKeys()
	chars := make([]uint32, len(out.Chars))
	for i, c := range out.Chars {
		chars[i] = uint32(c)
	}
	return uint8(out.Code), uint8(out.Backspaces), chars, nil
}

// TempOffSpelling disables spell checking until the next word break.
func (s *Service) TempOffSpelling() *dbus.Error {
	s.engine.TempOffSpelling()
	return nil
}

// TempOffEngine pauses or resumes the engine.
func (s *Service) TempOffEngine(off bool) *dbus.Error {
	s.engine.TempOffEngine(off)
	return nil
}

// ReloadConfig re-reads runtime-config.ini and runtime-macros.tsv. The
// frontend calls this when it observes a file change.
func (s *Service) ReloadConfig() *dbus.Error {
	snapshot, err := config.LoadRuntime(config.RuntimeConfigPath(), config.Default())
	if err != nil {
		s.log.Warn("runtime config rejected, keeping previous", "err", err)
		return nil
	}
	s.engine.ApplyConfig(snapshot)
	if path := config.RuntimeMacrosPath(); fileExists(path) {
		s.engine.ReloadMacrosFile(path)
	}
	s.log.Info("runtime config applied",
		"input_type", int(snapshot.InputType),
		"code_table", int(snapshot.CodeTable),
		"macros", s.engine.Macros().Len())
	return nil
}

// AppFocused applies the smart-switch preference of a newly focused app
// and returns the effective language.
func (s *Service) AppFocused(appID string) (int32, *dbus.Error) {
	cfg := s.engine.Config()
	if !cfg.UseSmartSwitchKey {
		return int32(cfg.Language), nil
	}
	def := smartswitch.Pack(int(cfg.Language), int(cfg.CodeTable))
	state := s.store.Get(appID, def)
	if state == smartswitch.NotFound {
		return int32(cfg.Language), nil
	}
	st := smartswitch.State(state)
	cfg.Language = config.Language(st.Language())
	if cfg.RememberCode {
		cfg.CodeTable = charset.ID(st.CodeTable())
	}
	s.engine.ApplyConfig(cfg)
	return int32(cfg.Language), nil
}

// SetLanguage records a language switch, persisting it for the app and
// into the runtime config.
func (s *Service) SetLanguage(appID string, language int32) *dbus.Error {
	cfg := s.engine.Config()
	cfg.Language = config.Language(language)
	s.engine.ApplyConfig(cfg)

	if cfg.UseSmartSwitchKey && appID != "" {
		s.store.Set(appID, smartswitch.Pack(int(cfg.Language), int(cfg.CodeTable)))
		if err := os.WriteFile(s.storePath, s.store.Save(), 0o644); err != nil {
			s.log.Warn("smart-switch store not saved", "err", err)
		}
	}
	if err := config.PersistLanguage(config.RuntimeConfigPath(), cfg.Language); err != nil {
		s.log.Warn("language not persisted", "err", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func main() {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))

	settings := loadSettings(log)
	log = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(settings.LogLevel),
		TimeFormat: time.Kitchen,
	}))

	conn, err := dbus.SessionBus()
	if err != nil {
		log.Error("session bus unavailable", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		log.Error("name request failed", "err", err)
		os.Exit(1)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		log.Error("name already taken, another instance may be running")
		os.Exit(1)
	}

	snapshot, err := config.LoadRuntime(config.RuntimeConfigPath(), config.Default())
	if err != nil {
		log.Warn("runtime config rejected, using defaults", "err", err)
		snapshot = config.Default()
	}

	eng := engine.New(config.NewHolder(snapshot), macro.Env{})
	eng.SetDiagnostic(func(err error) { log.Warn("engine", "err", err) })

	if eng.LoadDictionary(dict.English, settings.EnglishDict) {
		en, _, _, _ := eng.Dictionary().Sizes()
		log.Info("english dictionary mapped", "words", en, "path", settings.EnglishDict)
	}
	if eng.LoadDictionary(dict.Vietnamese, settings.VietnameseDict) {
		_, vi, _, _ := eng.Dictionary().Sizes()
		log.Info("vietnamese dictionary mapped", "words", vi, "path", settings.VietnameseDict)
	}
	if path := config.RuntimeMacrosPath(); fileExists(path) {
		eng.ReloadMacrosFile(path)
	}

	store := smartswitch.NewStore()
	if data, err := os.ReadFile(settings.SmartSwitch); err == nil {
		store.Load(data)
	}

	svc := &Service{
		engine:    eng,
		store:     store,
		log:       log,
		storePath: settings.SmartSwitch,
	}
	if err := conn.Export(svc, dbus.ObjectPath(objectPath), serviceName); err != nil {
		log.Error("export failed", "err", err)
		os.Exit(1)
	}

	log.Info("engine running",
		"service", serviceName,
		"path", objectPath,
		"macros", eng.Macros().Len())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("shutting down")
}
