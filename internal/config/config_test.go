package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notjosh/rangy"
)

func TestDefaults_MatchLibraryDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, rangy.DefaultCharacterOptions(), cfg.CharacterOptions())
	assert.Equal(t, OutputText, cfg.Output)
}

func TestValidate_RejectsUnknownOutput(t *testing.T) {
	cfg := Defaults()
	cfg.Output = "xml"
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownTokenizer(t *testing.T) {
	cfg := Defaults()
	cfg.Word.Tokenizer = "icu"
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadPattern(t *testing.T) {
	cfg := Defaults()
	cfg.Word.Pattern = "[a-"
	err := cfg.Validate()
	require.ErrorIs(t, err, rangy.ErrInvalidPattern)
}

func TestWordOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Word.Pattern = `\w+`
	cfg.Word.Tokenizer = "unicode"
	cfg.Word.IncludeTrailingSpace = true

	opts := cfg.WordOptions()
	require.NotNil(t, opts.Pattern)
	assert.Equal(t, `\w+`, opts.Pattern.String())
	assert.NotNil(t, opts.Tokenizer)
	assert.True(t, opts.IncludeTrailingSpace)
}

func TestUnmarshal_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
output: yaml
character:
  block_content_trailing_space: false
  ignore: "*"
repl:
  cache_expiration: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, OutputYAML, cfg.Output)
	assert.False(t, cfg.Character.BlockContentTrailingSpace)
	assert.True(t, cfg.Character.SpaceBeforeBr)
	assert.Equal(t, "*", cfg.Character.Ignore)
	assert.Equal(t, "1m0s", cfg.REPL.CacheExpiration.String())
}
