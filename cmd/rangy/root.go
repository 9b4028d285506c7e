package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notjosh/rangy"
	"github.com/notjosh/rangy/htmldom"
	"github.com/notjosh/rangy/internal/config"
)

var (
	cfgFile  string
	selector string
	fragment bool
	cfg      config.Config
	logger   = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "rangy",
	Short: "Work with the visible text of HTML documents",
	Long: `rangy reads an HTML document, works out which characters a browser would
display after whitespace collapsing, and lets you extract that text, search it,
walk its words and convert between DOM ranges and character offsets.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/rangy/config.yaml)")
	flags.StringVarP(&selector, "select", "s", "",
		"CSS selector for the container element (default: body)")
	flags.BoolVar(&fragment, "fragment", false,
		"parse input as a body fragment instead of a full document")
	flags.StringP("output", "o", "", "output format: text, yaml or toml")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.StringSlice("stylesheet", nil, "extra CSS applied to the document (repeatable)")
	flags.String("ignore", "", "characters to drop from the text stream")
	flags.Bool("trailing-space", false, "keep trailing spaces at the end of block content")

	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("stylesheets", flags.Lookup("stylesheet"))
	_ = viper.BindPFlag("character.ignore", flags.Lookup("ignore"))

	rootCmd.AddCommand(textCmd, findCmd, wordsCmd, offsetsCmd, moveCmd, replCmd)
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("stylesheets", defaults.Stylesheets)
	viper.SetDefault("character.block_content_trailing_space", defaults.Character.BlockContentTrailingSpace)
	viper.SetDefault("character.space_before_br", defaults.Character.SpaceBeforeBr)
	viper.SetDefault("character.space_before_block", defaults.Character.SpaceBeforeBlock)
	viper.SetDefault("character.pre_line_trailing_space", defaults.Character.PreLineTrailingSpace)
	viper.SetDefault("character.ignore", defaults.Character.Ignore)
	viper.SetDefault("word.pattern", defaults.Word.Pattern)
	viper.SetDefault("word.tokenizer", defaults.Word.Tokenizer)
	viper.SetDefault("word.include_trailing_space", defaults.Word.IncludeTrailingSpace)
	viper.SetDefault("repl.cache_expiration", defaults.REPL.CacheExpiration)
	viper.SetDefault("repl.watch_files", defaults.REPL.WatchFiles)
	viper.SetDefault("repl.watch_debounce", defaults.REPL.WatchDebounce)

	viper.SetEnvPrefix("RANGY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if path := config.DefaultConfigPath(); path != "" {
		viper.SetConfigFile(path)
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			fmt.Fprintf(os.Stderr, "rangy: reading config: %v\n", err)
		}
	}

	cfg = defaults
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "rangy: decoding config: %v\n", err)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cmd.Flags().Changed("trailing-space") {
		keep, _ := cmd.Flags().GetBool("trailing-space")
		cfg.Character.BlockContentTrailingSpace = keep
	}
	logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// loadDocument parses the named file, or standard input for "-" or no name.
func loadDocument(cmd *cobra.Command, args []string) (*htmldom.Document, error) {
	opts := htmldom.Options{Stylesheets: cfg.Stylesheets, Logger: logger}

	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}

	if fragment {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return htmldom.ParseFragment(string(data), opts)
	}
	return htmldom.Parse(r, opts)
}

// selectContainer returns the first element matching sel, or the body.
func selectContainer(doc *htmldom.Document, sel string) (*htmldom.Node, error) {
	if sel == "" {
		return doc.Body(), nil
	}
	nodes, err := doc.Select(sel)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", sel, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("selector %q matched nothing", sel)
	}
	return nodes[0], nil
}

// workspace is a parsed document bound to a Library and a container.
type workspace struct {
	doc       *htmldom.Document
	lib       *rangy.Library
	container *htmldom.Node
}

func newWorkspace(doc *htmldom.Document, sel string) (*workspace, error) {
	container, err := selectContainer(doc, sel)
	if err != nil {
		return nil, err
	}
	lib, err := rangy.Init(rangy.LibraryOptions{Styler: doc, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("initializing library: %w", err)
	}
	return &workspace{doc: doc, lib: lib, container: container}, nil
}

func openWorkspace(cmd *cobra.Command, args []string) (*workspace, error) {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return nil, err
	}
	return newWorkspace(doc, selector)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string.
func SetVersion(v string) {
	rootCmd.Version = v
}
