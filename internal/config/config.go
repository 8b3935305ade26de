package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds tunables loaded once at module init. Rules of the game
// itself (deck, set catalog, table size) are fixed in the domain package and
// deliberately not configurable.
type GameConfig struct {
	// TrophiesPerSet is the per-captured-set trophy award paid to each member
	// of the winning team at game end.
	TrophiesPerSet int64 `json:"trophies_per_set"`
	// VoiceTokenExpirySeconds bounds voice access-token lifetime.
	VoiceTokenExpirySeconds int `json:"voice_token_expiry_seconds"`
	// VoiceEnabled gates the voice-token RPC.
	VoiceEnabled bool `json:"voice_enabled"`
}

const (
	defaultTrophiesPerSet     = 10
	defaultVoiceExpirySeconds = 3600
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Only the
// first call reads the file; later calls return the first outcome.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when no config
// was loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetTrophiesPerSet returns the configured per-set award with a safe default.
func GetTrophiesPerSet() int64 {
	if cfg == nil || cfg.TrophiesPerSet <= 0 {
		return defaultTrophiesPerSet
	}
	return cfg.TrophiesPerSet
}

// GetVoiceTokenExpirySeconds returns the configured token lifetime with a
// safe default.
func GetVoiceTokenExpirySeconds() int {
	if cfg == nil || cfg.VoiceTokenExpirySeconds <= 0 {
		return defaultVoiceExpirySeconds
	}
	return cfg.VoiceTokenExpirySeconds
}

// VoiceEnabled reports whether the voice-token RPC should be served. Voice is
// on unless a loaded config turns it off.
func VoiceEnabled() bool {
	return cfg == nil || cfg.VoiceEnabled
}
