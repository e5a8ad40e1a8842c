// Package config loads the kagami configuration file and applies
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Backend is one of "sqlite", "fs", "memory".
	Backend string `yaml:"backend"`
	// Path is the SQLite file or FS directory. Ignored for "memory".
	Path string `yaml:"path"`
}

// LLMConfig configures the chat-completion client.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// TTSConfig configures speech synthesis.
type TTSConfig struct {
	// Provider is "voicevox", "elevenlabs" or "" (disabled).
	Provider      string `yaml:"provider"`
	VoicevoxURL   string `yaml:"voicevox_url"`
	Speaker       int    `yaml:"speaker"`
	ElevenLabsKey string `yaml:"elevenlabs_key"`
	VoiceID       string `yaml:"voice_id"`
}

// Config is the full application configuration.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	LLM      LLMConfig     `yaml:"llm"`
	TTS      TTSConfig     `yaml:"tts"`
	Language string        `yaml:"language"`
	DemoSeed bool          `yaml:"demo_seed"`
	Debug    bool          `yaml:"debug"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "kagami.db",
		},
		LLM: LLMConfig{
			Model: "claude-3-5-haiku-latest",
		},
		TTS: TTSConfig{
			VoicevoxURL: "http://127.0.0.1:50021",
			Speaker:     1,
		},
		Language: "en",
		DemoSeed: true,
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist, then applies environment overrides. A present but
// unreadable or malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets secrets come from the environment instead of the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("KAGAMI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.TTS.ElevenLabsKey = v
	}
}
