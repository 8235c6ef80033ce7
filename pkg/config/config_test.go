package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/skmtlab/hiroi/pkg/field"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefaultConfigMirrorsFieldDefaults(t *testing.T) {
	got := DefaultConfig().FieldTable()
	want := field.DefaultTable()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("default table mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultConfigSuggestValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Suggest.DebounceMs != 300 {
		t.Errorf("DebounceMs = %d, want 300", cfg.Suggest.DebounceMs)
	}
	if cfg.Suggest.Limit != 10 {
		t.Errorf("Limit = %d, want 10", cfg.Suggest.Limit)
	}
	if got := cfg.Debounce(); got != 300*time.Millisecond {
		t.Errorf("Debounce() = %v, want 300ms", got)
	}
}

func TestInitConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected config file at %s: %v", path, statErr)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("fresh config differs from defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	path := writeConfigFile(t, `
[field]
work_type_hankaku = 20
work_type_zenkaku = 10

[range]
quantity_max = 100000.0

[suggest]
debounce_ms = 150
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	want.Field.WorkTypeHankaku = 20
	want.Field.WorkTypeZenkaku = 10
	want.Range.QuantityMax = 100000
	want.Suggest.DebounceMs = 150
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("loaded config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRecoversValidKeys(t *testing.T) {
	// debounce_ms has the wrong type; the rest of the file is salvageable.
	path := writeConfigFile(t, `
[suggest]
debounce_ms = "fast"
limit = 15

[server]
addr = ":9090"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	want.Suggest.Limit = 15
	want.Server.Addr = ":9090"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("recovered config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfigFile(t, `
[server]
max_limit = 40
`)

	cfg, usedPath, err := LoadConfigWithPriority(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPriority: %v", err)
	}
	if usedPath != path {
		t.Errorf("used path = %q, want %q", usedPath, path)
	}
	if cfg.Server.MaxLimit != 40 {
		t.Errorf("MaxLimit = %d, want 40", cfg.Server.MaxLimit)
	}
}

func TestUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	debounce := 500
	limit := 20
	if err := cfg.Update(path, &debounce, &limit, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after update: %v", err)
	}
	if reloaded.Suggest.DebounceMs != 500 || reloaded.Suggest.Limit != 20 {
		t.Errorf("reloaded suggest = %+v, want debounce 500 limit 20", reloaded.Suggest)
	}
	if reloaded.Server.MaxLimit != DefaultConfig().Server.MaxLimit {
		t.Errorf("MaxLimit changed unexpectedly: %d", reloaded.Server.MaxLimit)
	}
}

func TestFieldTableAppliesOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.TextZenkaku = 2
	cfg.Field.TextHankaku = 4
	table := cfg.FieldTable()

	if check := table.ValidateTextLength("abcde", field.ItemName); check.Valid {
		t.Error("expected width 5 to exceed the tightened budget of 4")
	}
	// The work type keeps its own cap.
	if check := table.ValidateTextLength("abcde", field.WorkType); !check.Valid {
		t.Errorf("work type unexpectedly invalid: %s", check.Error)
	}

	cfg.Range.QuantityMax = 100
	table = cfg.FieldTable()
	if check := table.ValidateNumericRange(101, field.Quantity); check.Valid {
		t.Error("expected 101 to exceed the tightened quantity bound")
	}
}
