package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flyff-assist/internal/slots"
	"flyff-assist/internal/vision"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func gridJSON(bars, perBar int) string {
	slot := `{"slot_type":"Unused","slot_cooldown":null,"slot_threshold":null,"slot_enabled":true}`
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < bars; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"slots":[`)
		for j := 0; j < perBar; j++ {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(slot)
		}
		b.WriteString("]}")
	}
	b.WriteString("]")
	return b.String()
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	data, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.Config.Mode != ModeStopped {
		t.Errorf("mode = %q, want stopped", data.Config.Mode)
	}
	if got := data.Config.Support.Settings().Grid; got != slots.DefaultGrid() {
		t.Error("support grid is not the default grid")
	}
}

func TestLoadCorruptFileUsesDefaults(t *testing.T) {
	const content = `{"config": {`
	path := writeFile(t, content)
	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.Config == nil || len(data.Cookies) != 0 {
		t.Errorf("got %+v, want defaults", data)
	}

	kept, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("no backup of the corrupt file: %v", err)
	}
	if string(kept) != content {
		t.Errorf("backup = %q, want %q", kept, content)
	}
}

func TestLoadMalformedFieldKeepsTheRest(t *testing.T) {
	content := fmt.Sprintf(`{"config":{
		"mode":"support",
		"support_config":{
			"slot_bars":%s,
			"interval_between_buffs":"3000",
			"marker_distance_threshold":150
		}
	},"cookies":[{"name":"session","value":"abc"}]}`, gridJSON(9, 10))
	path := writeFile(t, content)

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.Config.Mode != ModeSupport {
		t.Errorf("mode = %q, want support", data.Config.Mode)
	}
	s := data.Config.Support.Settings()
	if s.BuffInterval != DefaultBuffInterval {
		t.Errorf("buff interval = %v, want default", s.BuffInterval)
	}
	if s.MarkerDistance != 150 {
		t.Errorf("marker distance = %d, want 150", s.MarkerDistance)
	}
	if len(data.Cookies) != 1 || data.Cookies[0].Value != "abc" {
		t.Errorf("cookies = %+v", data.Cookies)
	}
	if _, err := os.Stat(path + BackupSuffix); err != nil {
		t.Errorf("no backup after dropping a field: %v", err)
	}
}

func TestLoadCleanFileWritesNoBackup(t *testing.T) {
	path := writeFile(t, `{"config":{"mode":"farming"}}`)
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path + BackupSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected backup: %v", err)
	}
}

func TestLoadGridShapeBesideMalformedField(t *testing.T) {
	content := fmt.Sprintf(`{"config":{"mode":"support","support_config":{
		"slot_bars":%s,
		"interval_between_buffs":"3000"
	}}}`, gridJSON(8, 10))
	_, err := Load(writeFile(t, content))
	if !errors.Is(err, ErrGridShape) {
		t.Fatalf("Load error = %v, want ErrGridShape", err)
	}
}

func TestLoadUndecodableGridFails(t *testing.T) {
	_, err := Load(writeFile(t, `{"config":{"farming_config":{"slot_bars":"none"}}}`))
	if err == nil || !strings.Contains(err.Error(), "farming_config.slot_bars") {
		t.Fatalf("Load error = %v, want a farming_config.slot_bars error", err)
	}
}

func TestLoadRejectsGridShape(t *testing.T) {
	tests := []struct {
		name    string
		section string
		bars    int
		perBar  int
	}{
		{"8 bars", "farming_config", 8, 10},
		{"9 slots per bar", "support_config", 9, 9},
		{"10 bars", "support_config", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := fmt.Sprintf(`{"config":{"mode":"support","%s":{"slot_bars":%s}}}`, tt.section, gridJSON(tt.bars, tt.perBar))
			_, err := Load(writeFile(t, content))
			if !errors.Is(err, ErrGridShape) {
				t.Fatalf("Load error = %v, want ErrGridShape", err)
			}
			if !strings.Contains(err.Error(), tt.section) {
				t.Errorf("error %q does not name %s", err, tt.section)
			}
		})
	}
}

func TestLoadAcceptsFullGrid(t *testing.T) {
	content := fmt.Sprintf(`{"config":{"mode":"farming","farming_config":{"slot_bars":%s}}}`, gridJSON(9, 10))
	data, err := Load(writeFile(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.Config.Mode != ModeFarming {
		t.Errorf("mode = %q", data.Config.Mode)
	}
}

func TestLoadUnknownModeStops(t *testing.T) {
	data, err := Load(writeFile(t, `{"config":{"mode":"auto_shout"}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.Config.Mode != ModeStopped {
		t.Errorf("mode = %q, want stopped", data.Config.Mode)
	}
}

func TestFarmingDefaults(t *testing.T) {
	s := (&FarmingConfig{}).Settings()

	want := vision.MobConfig{
		PassiveColor:        vision.NewColor(234, 234, 149),
		PassiveTolerance:    5,
		AggressiveColor:     vision.NewColor(179, 23, 23),
		AggressiveTolerance: 10,
		Width:               vision.WidthFilter{Min: 11, Max: 180},
	}
	if s.Mobs != want {
		t.Errorf("Mobs = %+v, want %+v", s.Mobs, want)
	}
	if s.ObstacleCooldown != 5*time.Second || s.ObstacleMaxTry != 5 {
		t.Errorf("obstacle = %v/%d", s.ObstacleCooldown, s.ObstacleMaxTry)
	}
	if s.CircleRotation != 30 || s.MaxDistance != 325 || s.BuffInterval != 2*time.Second {
		t.Errorf("settings = %+v", s)
	}
	if !s.PreventAlreadyAttacked || s.StopFighting {
		t.Errorf("flags = %v/%v", s.PreventAlreadyAttacked, s.StopFighting)
	}
}

func TestSupportDefaults(t *testing.T) {
	s := (&SupportConfig{}).Settings()
	if s.ObstacleCooldown != 0 || s.BuffInterval != 2*time.Second || s.MarkerDistance != 200 || !s.OnDeathDisconnect {
		t.Errorf("settings = %+v", s)
	}
}

func TestOutOfRangeFieldsUseDefaults(t *testing.T) {
	content := `{"config":{"farming_config":{
		"passive_tolerence": 300,
		"aggressive_tolerence": -1,
		"passive_mobs_colors": [250, null, 999],
		"min_mobs_name_width": 200,
		"max_mobs_name_width": 100,
		"obstacle_avoidance_cooldown": -20
	}}}`
	data, err := Load(writeFile(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := data.Config.Farming.Settings()

	if s.Mobs.PassiveTolerance != 5 || s.Mobs.AggressiveTolerance != 10 {
		t.Errorf("tolerances = %d/%d", s.Mobs.PassiveTolerance, s.Mobs.AggressiveTolerance)
	}
	if want := vision.NewColor(250, 234, 149); s.Mobs.PassiveColor != want {
		t.Errorf("passive color = %+v, want %+v", s.Mobs.PassiveColor, want)
	}
	if s.Mobs.Width != (vision.WidthFilter{Min: 11, Max: 180}) {
		t.Errorf("inverted width range not reset: %+v", s.Mobs.Width)
	}
	if s.ObstacleCooldown != DefaultFarmingObstacleCooldown {
		t.Errorf("obstacle cooldown = %v", s.ObstacleCooldown)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	grid := slots.DefaultGrid()
	grid[2][4] = slots.Slot{Type: slots.HealSkill, Threshold: slots.Uint32(60), Enabled: true}

	data := NewPersistentData()
	data.Config.Mode = ModeSupport
	data.Config.Support.SlotBars = FromGrid(grid)
	data.Cookies = append(data.Cookies, Cookie{Name: "session", Value: "abc", Domain: "universe.flyff.com"})

	path := filepath.Join(t.TempDir(), "data.json")
	if err := Save(path, data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Config.Mode != ModeSupport {
		t.Errorf("mode = %q", loaded.Config.Mode)
	}
	got := loaded.Config.Support.Settings().Grid[2][4]
	if got.Type != slots.HealSkill || got.ThresholdValue() != 60 {
		t.Errorf("slot = %+v", got)
	}
	if len(loaded.Cookies) != 1 || loaded.Cookies[0].Value != "abc" {
		t.Errorf("cookies = %+v", loaded.Cookies)
	}
}
