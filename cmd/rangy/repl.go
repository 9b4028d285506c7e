package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notjosh/rangy"
	"github.com/notjosh/rangy/htmldom"
	"github.com/notjosh/rangy/internal/doccache"
	"github.com/notjosh/rangy/internal/watcher"
)

var replCmd = &cobra.Command{
	Use:   "repl [file]",
	Short: "Explore a document interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newREPL(cmd.InOrStdin(), cmd.OutOrStdout())
		defer r.close()
		if len(args) > 0 {
			r.cmdOpen(args)
		}
		r.run()
		return nil
	},
}

// REPL holds the state of the interactive session.
type REPL struct {
	reader *bufio.Reader
	out    io.Writer

	cache    *doccache.Cache
	watcher  *watcher.Watcher
	changes  <-chan string
	ws       *workspace
	session  *rangy.Session
	path     string
	selector string
}

func newREPL(in io.Reader, out io.Writer) *REPL {
	opts := htmldom.Options{Stylesheets: cfg.Stylesheets, Logger: logger}
	r := &REPL{
		reader:   bufio.NewReader(in),
		out:      out,
		cache:    doccache.New(cfg.REPL.CacheExpiration, doccache.FileLoader(opts), logger),
		selector: selector,
	}
	if cfg.REPL.WatchFiles {
		w, err := watcher.New(cfg.REPL.WatchDebounce)
		if err != nil {
			logger.Warn("file watching disabled", "error", err)
		} else {
			r.watcher = w
			r.changes = w.Start()
		}
	}
	return r
}

func (r *REPL) run() {
	fmt.Fprintln(r.out, "rangy REPL - visible text explorer")
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(r.out)

	for {
		fmt.Fprint(r.out, "rangy> ")
		input, err := r.reader.ReadString('\n')
		if err != nil && input == "" {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		r.applyChanges()

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.handleCommand(input) {
			return
		}
	}
}

func (r *REPL) close() {
	r.endSession()
	if r.watcher != nil {
		_ = r.watcher.Stop()
	}
}

// applyChanges reloads the current document if its file changed on disk.
func (r *REPL) applyChanges() {
	for {
		select {
		case path := <-r.changes:
			r.cache.Invalidate(path)
			if r.ws != nil && sameFile(path, r.path) {
				fmt.Fprintf(r.out, "%s changed on disk, reloading\n", r.path)
				r.load(r.path)
			}
		default:
			return
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()
	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false
	case "open":
		r.cmdOpen(args)
	case "parse":
		r.cmdParse(strings.TrimSpace(strings.TrimPrefix(input, parts[0])))
	case "close":
		r.cmdClose()
	case "status":
		r.cmdStatus()
	case "select":
		r.cmdSelect(args)
	case "text":
		r.cmdText()
	case "find":
		r.cmdFind(args, false)
	case "regexp":
		r.cmdFind(args, true)
	case "words":
		r.cmdWords(args)
	case "chars":
		r.cmdChars(args)
	case "move":
		r.cmdMove(args)
	case "stats":
		r.cmdStats()
	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}
	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

DOCUMENTS:
  open <file>               Load an HTML file (cached, reloaded when it changes)
  parse <html>              Load an HTML fragment typed inline
  close                     Close the current document
  status                    Show the current document and container
  select <css>              Use the first element matching a selector as container

TEXT:
  text                      Print the container's visible text
  find <term>               List matches of a literal term
  regexp <pattern>          List matches of a regular expression
  words [offset] [back]     List tokens from a character offset
  chars <start> <end>       Select characters and show the DOM range
  move <offset> <unit> <n>  Move a caret by n characters or words

INSPECTION:
  stats                     Show cache statistics for the current session

OTHER:
  help                      Show this help message
  quit, exit                Exit the REPL
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) ensureDocument() bool {
	if r.ws == nil {
		fmt.Fprintln(r.out, "No document is open. Use 'open <file>' or 'parse <html>'.")
		return false
	}
	return true
}

func (r *REPL) endSession() {
	if r.session != nil {
		r.session.End()
		r.session = nil
	}
}

// use installs ws as the current workspace with a fresh Session.
func (r *REPL) use(ws *workspace, path string) {
	r.endSession()
	r.ws = ws
	r.path = path
	r.session = ws.lib.NewSession()
}

func (r *REPL) load(path string) {
	doc, err := r.cache.Get(path)
	if err != nil {
		fmt.Fprintf(r.out, "Error loading document: %v\n", err)
		return
	}
	ws, err := newWorkspace(doc, r.selector)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	r.use(ws, path)
	fmt.Fprintf(r.out, "Loaded %s (%d cached)\n", path, r.cache.Len())
}

func (r *REPL) cmdOpen(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: open <file>")
		return
	}
	r.load(args[0])
	if r.watcher != nil && r.ws != nil {
		if err := r.watcher.Add(args[0]); err != nil {
			logger.Warn("not watching file", "path", args[0], "error", err)
		}
	}
}

func (r *REPL) cmdParse(source string) {
	if source == "" {
		fmt.Fprintln(r.out, "Usage: parse <html>")
		return
	}
	doc, err := htmldom.ParseFragment(source, htmldom.Options{Stylesheets: cfg.Stylesheets, Logger: logger})
	if err != nil {
		fmt.Fprintf(r.out, "Error parsing fragment: %v\n", err)
		return
	}
	ws, err := newWorkspace(doc, r.selector)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	r.use(ws, "")
	fmt.Fprintln(r.out, "Parsed fragment")
}

func (r *REPL) cmdClose() {
	if !r.ensureDocument() {
		return
	}
	r.endSession()
	r.ws = nil
	r.path = ""
	fmt.Fprintln(r.out, "Document closed")
}

func (r *REPL) cmdStatus() {
	if r.ws == nil {
		fmt.Fprintln(r.out, "No document is open.")
		return
	}
	source := r.path
	if source == "" {
		source = "(inline fragment)"
	}
	fmt.Fprintln(r.out, "Document Status:")
	fmt.Fprintf(r.out, "  Source:    %s\n", source)
	fmt.Fprintf(r.out, "  Container: %s\n", r.ws.container)
	fmt.Fprintf(r.out, "  Selector:  %q\n", r.selector)
	fmt.Fprintf(r.out, "  Session:   %d\n", r.session.ID())
}

func (r *REPL) cmdSelect(args []string) {
	if !r.ensureDocument() {
		return
	}
	sel := strings.Join(args, " ")
	container, err := selectContainer(r.ws.doc, sel)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	r.selector = sel
	r.ws.container = container
	fmt.Fprintf(r.out, "Container is now %s\n", container)
}

// do runs fn borrowing the REPL's Session.
func (r *REPL) do(fn func(*rangy.Session) error) {
	err := r.ws.lib.Do(r.session, fn)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

func (r *REPL) cmdText() {
	if !r.ensureDocument() {
		return
	}
	r.do(func(s *rangy.Session) error {
		fmt.Fprintf(r.out, "%q\n", r.ws.innerText(s).Text)
		return nil
	})
}

func (r *REPL) cmdFind(args []string, isRegexp bool) {
	if !r.ensureDocument() {
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: find <term> | regexp <pattern>")
		return
	}
	req := findRequest{Term: strings.Join(args, " "), Regexp: isRegexp}
	r.do(func(s *rangy.Session) error {
		res, err := r.ws.find(s, req)
		if err != nil {
			return err
		}
		printMatches(r.out, res)
		return nil
	})
}

func (r *REPL) cmdWords(args []string) {
	if !r.ensureDocument() {
		return
	}
	from := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(r.out, "Invalid offset: %v\n", err)
			return
		}
		from = n
	}
	backward := len(args) > 1 && strings.HasPrefix(strings.ToLower(args[1]), "back")
	r.do(func(s *rangy.Session) error {
		res, err := r.ws.words(s, from, backward, 0)
		if err != nil {
			return err
		}
		printTokens(r.out, res)
		return nil
	})
}

func (r *REPL) cmdChars(args []string) {
	if !r.ensureDocument() {
		return
	}
	if len(args) != 2 {
		fmt.Fprintln(r.out, "Usage: chars <start> <end>")
		return
	}
	start, err1 := strconv.Atoi(args[0])
	end, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(r.out, "Offsets must be integers")
		return
	}
	r.do(func(s *rangy.Session) error {
		res, err := r.ws.offsets(s, start, end)
		if err != nil {
			return err
		}
		printOffsets(r.out, res)
		return nil
	})
}

func (r *REPL) cmdMove(args []string) {
	if !r.ensureDocument() {
		return
	}
	if len(args) != 3 {
		fmt.Fprintln(r.out, "Usage: move <offset> <character|word> <count>")
		return
	}
	from, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Invalid offset: %v\n", err)
		return
	}
	unit, err := parseUnit(args[1])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	count, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(r.out, "Invalid count: %v\n", err)
		return
	}
	r.do(func(s *rangy.Session) error {
		res, err := r.ws.move(s, from, unit, count)
		if err != nil {
			return err
		}
		printMove(r.out, res)
		return nil
	})
}

func (r *REPL) cmdStats() {
	if !r.ensureDocument() {
		return
	}
	st := r.session.Stats()
	fmt.Fprintln(r.out, "Session Cache:")
	fmt.Fprintf(r.out, "  Wrappers:   %d hits, %d misses\n", st.WrapperHits, st.WrapperMisses)
	fmt.Fprintf(r.out, "  Characters: %d hits, %d misses\n", st.CharacterHits, st.CharacterMisses)
	fmt.Fprintf(r.out, "  Max depth:  %d\n", st.MaxResolveDepth)
	fmt.Fprintf(r.out, "  Documents:  %d cached\n", r.cache.Len())
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
