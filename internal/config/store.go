package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"flyff-assist/internal/logging"
)

// DefaultPath is where the bot keeps its state.
const DefaultPath = "data.json"

// Cookie is a browser cookie kept between sessions so the client stays
// logged in.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// PersistentData is everything saved to disk.
type PersistentData struct {
	Config  *BotConfig `json:"config"`
	Cookies []Cookie   `json:"cookies"`
}

// NewPersistentData returns defaults and no cookies.
func NewPersistentData() *PersistentData {
	return &PersistentData{
		Config:  Default(),
		Cookies: make([]Cookie, 0),
	}
}

// BackupSuffix is appended to the data file name for the copy kept when
// part of the file could not be decoded.
const BackupSuffix = ".bak"

// Load reads path. A missing file yields the defaults. Fields that do not
// decode fall back to their defaults one by one, and the original file is
// copied to path+BackupSuffix before anything can overwrite it. A slot grid
// that does not decode or is not 9x10 is an error, the latter wrapping
// ErrGridShape.
func Load(path string) (*PersistentData, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Info("No existing data file, creating new configuration")
		return NewPersistentData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var l loader
	data, err := l.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := data.Config.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	data.Config.Mode = ParseMode(string(data.Config.Mode))

	if len(l.dropped) > 0 {
		backup := path + BackupSuffix
		if err := os.WriteFile(backup, raw, 0o644); err != nil {
			return nil, fmt.Errorf("back up %s: %w", path, err)
		}
		logging.Warn("Kept the original %s as %s", path, backup)
	}

	logging.Info("Data loaded from %s", path)
	return data, nil
}

// loader decodes a data file field by field, remembering what it dropped.
type loader struct {
	dropped []string
}

func (l *loader) skip(what string, err error) {
	logging.Warn("Ignoring %s: %v", what, err)
	l.dropped = append(l.dropped, what)
}

func (l *loader) decode(raw []byte) (*PersistentData, error) {
	data := NewPersistentData()

	var top struct {
		Config  json.RawMessage `json:"config"`
		Cookies json.RawMessage `json:"cookies"`
	}
	if err := json.Unmarshal(raw, &top); err != nil {
		l.skip("data file", err)
		return data, nil
	}

	if len(top.Cookies) > 0 {
		var cookies []Cookie
		if err := json.Unmarshal(top.Cookies, &cookies); err != nil {
			l.skip("cookies", err)
		} else if cookies != nil {
			data.Cookies = cookies
		}
	}

	if len(top.Config) == 0 {
		return data, nil
	}
	var sections struct {
		Mode    json.RawMessage `json:"mode"`
		Farming json.RawMessage `json:"farming_config"`
		Support json.RawMessage `json:"support_config"`
	}
	if err := json.Unmarshal(top.Config, &sections); err != nil {
		l.skip("config", err)
		return data, nil
	}

	if len(sections.Mode) > 0 {
		var mode string
		if err := json.Unmarshal(sections.Mode, &mode); err != nil {
			l.skip("config.mode", err)
		} else {
			data.Config.Mode = Mode(mode)
		}
	}
	if err := decodeFields(l, "farming_config", sections.Farming, &data.Config.Farming); err != nil {
		return nil, err
	}
	if err := decodeFields(l, "support_config", sections.Support, &data.Config.Support); err != nil {
		return nil, err
	}
	return data, nil
}

// decodeFields decodes the object raw into into one field at a time, so a
// bad field only loses itself. slot_bars cannot be defaulted and fails the
// load instead.
func decodeFields[T any](l *loader, section string, raw json.RawMessage, into *T) error {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		l.skip(section, err)
		return nil
	}

	for name, value := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{name: value})
		if err != nil {
			l.skip(section+"."+name, err)
			continue
		}
		// decode into a scratch value first: a failed decode can leave
		// half-set pointers behind
		var scratch T
		if err := json.Unmarshal(one, &scratch); err != nil {
			if name == "slot_bars" {
				return fmt.Errorf("%s.slot_bars: %w", section, err)
			}
			l.skip(section+"."+name, err)
			continue
		}
		if err := json.Unmarshal(one, into); err != nil {
			return fmt.Errorf("%s.%s: %w", section, name, err)
		}
	}
	return nil
}

// Save writes data to path with 2-space indentation.
func Save(path string, data *PersistentData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	logging.Info("Data saved to %s", path)
	return nil
}
