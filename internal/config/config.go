// Package config provides configuration types and defaults for the rangy
// command line tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/notjosh/rangy"
)

// Output formats.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputTOML = "toml"
)

// CharacterConfig mirrors rangy.CharacterOptions.
type CharacterConfig struct {
	BlockContentTrailingSpace bool   `mapstructure:"block_content_trailing_space" yaml:"block_content_trailing_space"`
	SpaceBeforeBr             bool   `mapstructure:"space_before_br" yaml:"space_before_br"`
	SpaceBeforeBlock          bool   `mapstructure:"space_before_block" yaml:"space_before_block"`
	PreLineTrailingSpace      bool   `mapstructure:"pre_line_trailing_space" yaml:"pre_line_trailing_space"`
	Ignore                    string `mapstructure:"ignore" yaml:"ignore"`
}

// WordConfig selects the word tokenizer.
type WordConfig struct {
	// Pattern overrides the default word pattern.
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	// Tokenizer is "default" or "unicode".
	Tokenizer            string `mapstructure:"tokenizer" yaml:"tokenizer"`
	IncludeTrailingSpace bool   `mapstructure:"include_trailing_space" yaml:"include_trailing_space"`
}

// REPLConfig holds settings for the interactive shell.
type REPLConfig struct {
	CacheExpiration time.Duration `mapstructure:"cache_expiration" yaml:"cache_expiration"`
	WatchFiles      bool          `mapstructure:"watch_files" yaml:"watch_files"`
	WatchDebounce   time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce"`
}

// Config holds all configuration options.
type Config struct {
	LogLevel    string          `mapstructure:"log_level" yaml:"log_level"`
	Output      string          `mapstructure:"output" yaml:"output"`
	Stylesheets []string        `mapstructure:"stylesheets" yaml:"stylesheets"`
	Character   CharacterConfig `mapstructure:"character" yaml:"character"`
	Word        WordConfig      `mapstructure:"word" yaml:"word"`
	REPL        REPLConfig      `mapstructure:"repl" yaml:"repl"`
}

// Defaults returns the configuration used when no file or flag overrides
// a value.
func Defaults() Config {
	return Config{
		LogLevel: "warn",
		Output:   OutputText,
		Character: CharacterConfig{
			BlockContentTrailingSpace: true,
			SpaceBeforeBr:             true,
			SpaceBeforeBlock:          true,
		},
		Word: WordConfig{
			Tokenizer: "default",
		},
		REPL: REPLConfig{
			CacheExpiration: 10 * time.Minute,
			WatchFiles:      true,
			WatchDebounce:   200 * time.Millisecond,
		},
	}
}

// DefaultConfigPath returns ~/.config/rangy/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rangy", "config.yaml")
}

// Validate checks enumerated values and the word pattern.
func (c Config) Validate() error {
	switch c.Output {
	case OutputText, OutputYAML, OutputTOML:
	default:
		return fmt.Errorf("output must be one of text, yaml, toml: got %q", c.Output)
	}
	switch c.Word.Tokenizer {
	case "", "default", "unicode":
	default:
		return fmt.Errorf("word.tokenizer must be default or unicode: got %q", c.Word.Tokenizer)
	}
	if c.Word.Pattern != "" {
		if _, err := rangy.CompilePattern(c.Word.Pattern, false); err != nil {
			return fmt.Errorf("word.pattern: %w", err)
		}
	}
	return nil
}

// CharacterOptions converts the character section.
func (c Config) CharacterOptions() rangy.CharacterOptions {
	return rangy.CharacterOptions{
		IncludeBlockContentTrailingSpace: c.Character.BlockContentTrailingSpace,
		IncludeSpaceBeforeBr:             c.Character.SpaceBeforeBr,
		IncludeSpaceBeforeBlock:          c.Character.SpaceBeforeBlock,
		IncludePreLineTrailingSpace:      c.Character.PreLineTrailingSpace,
		IgnoreCharacters:                 c.Character.Ignore,
	}
}

// WordOptions converts the word section. Call Validate first; an invalid
// pattern falls back to the default.
func (c Config) WordOptions() rangy.WordOptions {
	opts := rangy.WordOptions{IncludeTrailingSpace: c.Word.IncludeTrailingSpace}
	if c.Word.Pattern != "" {
		if re, err := rangy.CompilePattern(c.Word.Pattern, false); err == nil {
			opts.Pattern = re
		}
	}
	if strings.EqualFold(c.Word.Tokenizer, "unicode") {
		opts.Tokenizer = rangy.SegmentingTokenizer
	}
	return opts
}
