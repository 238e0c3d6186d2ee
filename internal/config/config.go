package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/marcus/places/internal/models"
)

const (
	configFile = "config.json"
	lockFile   = "config.json.lock"
)

// Defaults applied when the config leaves a value unset.
const (
	DefaultPanStep      = 0.01
	DefaultUnlockReason = "We need to unlock your data."
)

// Keys accepted by Get and Set.
const (
	KeyHome         = "home"
	KeyPanStep      = "pan_step"
	KeyUnlockReason = "unlock_reason"
)

// ErrUnknownKey is returned by Get and Set for keys they do not manage.
var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the user-settable keys.
func Keys() []string {
	return []string{KeyHome, KeyPanStep, KeyUnlockReason}
}

// Load reads the config from disk
func Load(dataDir string) (*models.Config, error) {
	configPath := filepath.Join(dataDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(dataDir string, cfg *models.Config) error {
	configPath := filepath.Join(dataDir, configFile)

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dataDir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// withConfigLock serializes read-modify-write cycles on config.json
func withConfigLock(dataDir string, fn func() error) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dataDir, lockFile), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := lockFileExclusive(f); err != nil {
		return err
	}
	defer unlockFile(f)

	return fn()
}

// update runs mutate against the current config and saves the result
func update(dataDir string, mutate func(cfg *models.Config) error) error {
	return withConfigLock(dataDir, func() error {
		cfg, err := Load(dataDir)
		if err != nil {
			return err
		}
		if err := mutate(cfg); err != nil {
			return err
		}
		return Save(dataDir, cfg)
	})
}

// GetHome returns the configured initial map center, if any
func GetHome(dataDir string) (models.Coordinate, bool, error) {
	cfg, err := Load(dataDir)
	if err != nil {
		return models.Coordinate{}, false, err
	}
	if cfg.Home == nil {
		return models.Coordinate{}, false, nil
	}
	return *cfg.Home, true, nil
}

// SetHome sets the initial map center
func SetHome(dataDir string, c models.Coordinate) error {
	if !c.Valid() {
		return fmt.Errorf("invalid coordinate %s", c)
	}
	return update(dataDir, func(cfg *models.Config) error {
		cfg.Home = &c
		return nil
	})
}

// GetPanStep returns the map pan step in degrees (with default)
func GetPanStep(dataDir string) (float64, error) {
	cfg, err := Load(dataDir)
	if err != nil {
		return DefaultPanStep, err
	}
	if cfg.PanStep <= 0 {
		return DefaultPanStep, nil
	}
	return cfg.PanStep, nil
}

// GetUnlockReason returns the text shown when asking to unlock (with default)
func GetUnlockReason(dataDir string) (string, error) {
	cfg, err := Load(dataDir)
	if err != nil {
		return DefaultUnlockReason, err
	}
	if strings.TrimSpace(cfg.UnlockReason) == "" {
		return DefaultUnlockReason, nil
	}
	return cfg.UnlockReason, nil
}

// GetPassphraseVerifier returns the decoded salt and key of the stored
// unlock passphrase. ok is false when no passphrase is configured.
func GetPassphraseVerifier(dataDir string) (salt, key []byte, ok bool, err error) {
	cfg, err := Load(dataDir)
	if err != nil {
		return nil, nil, false, err
	}
	if cfg.Passphrase == nil || cfg.Passphrase.Salt == "" || cfg.Passphrase.Key == "" {
		return nil, nil, false, nil
	}
	salt, err = base64.StdEncoding.DecodeString(cfg.Passphrase.Salt)
	if err != nil {
		return nil, nil, false, fmt.Errorf("decode passphrase salt: %w", err)
	}
	key, err = base64.StdEncoding.DecodeString(cfg.Passphrase.Key)
	if err != nil {
		return nil, nil, false, fmt.Errorf("decode passphrase key: %w", err)
	}
	return salt, key, true, nil
}

// SetPassphraseVerifier stores the salt and derived key of the unlock passphrase
func SetPassphraseVerifier(dataDir string, salt, key []byte) error {
	return update(dataDir, func(cfg *models.Config) error {
		cfg.Passphrase = &models.PassphraseVerifier{
			Salt: base64.StdEncoding.EncodeToString(salt),
			Key:  base64.StdEncoding.EncodeToString(key),
		}
		return nil
	})
}

// ClearPassphraseVerifier removes the unlock passphrase
func ClearPassphraseVerifier(dataDir string) error {
	return update(dataDir, func(cfg *models.Config) error {
		cfg.Passphrase = nil
		return nil
	})
}

// Get returns the string form of a user-settable key ("" when unset)
func Get(dataDir, key string) (string, error) {
	cfg, err := Load(dataDir)
	if err != nil {
		return "", err
	}
	switch key {
	case KeyHome:
		if cfg.Home == nil {
			return "", nil
		}
		return fmt.Sprintf("%g,%g", cfg.Home.Latitude, cfg.Home.Longitude), nil
	case KeyPanStep:
		step, _ := GetPanStep(dataDir)
		return strconv.FormatFloat(step, 'g', -1, 64), nil
	case KeyUnlockReason:
		return GetUnlockReason(dataDir)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses value for a user-settable key and persists it
func Set(dataDir, key, value string) error {
	switch key {
	case KeyHome:
		c, err := ParseCoordinate(value)
		if err != nil {
			return err
		}
		return SetHome(dataDir, c)
	case KeyPanStep:
		step, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || step <= 0 || step > 90 {
			return fmt.Errorf("invalid pan step %q: want degrees in (0, 90]", value)
		}
		return update(dataDir, func(cfg *models.Config) error {
			cfg.PanStep = step
			return nil
		})
	case KeyUnlockReason:
		return update(dataDir, func(cfg *models.Config) error {
			cfg.UnlockReason = strings.TrimSpace(value)
			return nil
		})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// ParseCoordinate parses "lat,lon" (whitespace allowed around either part)
func ParseCoordinate(s string) (models.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return models.Coordinate{}, fmt.Errorf("invalid coordinate %q: want lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	c := models.Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return models.Coordinate{}, fmt.Errorf("coordinate out of range: %s", c)
	}
	return c, nil
}
