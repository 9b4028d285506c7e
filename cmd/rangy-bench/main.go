// rangy-bench is a benchmark and stress test for the rangy library. It
// generates a large styled HTML document and measures text extraction,
// search, word iteration and offset conversion.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/notjosh/rangy"
	"github.com/notjosh/rangy/htmldom"
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Millisecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Millisecond))
}

var (
	paragraphs int
	seed       int64
	ops        int
)

var rootCmd = &cobra.Command{
	Use:   "rangy-bench",
	Short: "Benchmark rangy on a generated HTML document",
	RunE: func(cmd *cobra.Command, args []string) error {
		run()
		return nil
	},
}

func main() {
	rootCmd.Flags().IntVarP(&paragraphs, "paragraphs", "p", 2000, "number of generated paragraphs")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "random seed for document generation")
	rootCmd.Flags().IntVarP(&ops, "ops", "n", 1000, "operations per repeated benchmark")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var vocabulary = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel",
	"india", "juliet", "kilo", "lima", "mike", "november", "oscar", "papa",
	"quebec", "romeo", "sierra", "tango", "uniform", "victor", "whiskey",
	"x-ray", "yankee", "zulu", "don't", "it's",
}

// generateDocument builds paragraphs of words with the markup that exercises
// whitespace collapsing: inline elements, runs of spaces, line breaks,
// hidden spans, pre blocks and tables.
func generateDocument(n int, rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><style>.hidden{display:none} .pl{white-space:pre-line}</style></head><body>\n")
	for i := 0; i < n; i++ {
		switch i % 10 {
		case 7:
			b.WriteString("<pre>  preformatted\n   text  </pre>\n")
			continue
		case 8:
			fmt.Fprintf(&b, "<table><tr><td>%d</td><td>%s</td></tr></table>\n", i, vocabulary[rng.Intn(len(vocabulary))])
			continue
		case 9:
			b.WriteString("<div class=\"pl\">line one  \n  line two</div>\n")
			continue
		}
		b.WriteString("<p>")
		words := 8 + rng.Intn(24)
		for w := 0; w < words; w++ {
			word := vocabulary[rng.Intn(len(vocabulary))]
			switch rng.Intn(12) {
			case 0:
				fmt.Fprintf(&b, "<b>%s</b>", word)
			case 1:
				fmt.Fprintf(&b, "<span class=\"hidden\">%s</span>", word)
			case 2:
				fmt.Fprintf(&b, "%s<br>", word)
			case 3:
				fmt.Fprintf(&b, "<i> %s </i>", word)
			default:
				b.WriteString(word)
			}
			b.WriteString(strings.Repeat(" ", 1+rng.Intn(3)))
		}
		fmt.Fprintf(&b, "needle%d</p>\n", i)
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

func run() {
	fmt.Println("Rangy Benchmark and Stress Test")
	fmt.Println("===============================")
	fmt.Printf("Paragraphs: %d\n", paragraphs)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	var results []BenchResult
	rng := rand.New(rand.NewSource(seed))

	start := time.Now()
	source := generateDocument(paragraphs, rng)
	results = append(results, BenchResult{
		Name:     "Generate document",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d KB", len(source)/1024),
	})
	fmt.Println(results[0])
	fmt.Println()

	start = time.Now()
	doc, err := htmldom.ParseString(source, htmldom.Options{})
	if err != nil {
		fmt.Printf("Failed to parse document: %v\n", err)
		os.Exit(1)
	}
	results = append(results, BenchResult{Name: "Parse and style", Duration: time.Since(start)})

	lib, err := rangy.Init(rangy.LibraryOptions{Styler: doc})
	if err != nil {
		fmt.Printf("Failed to init library: %v\n", err)
		os.Exit(1)
	}
	body := doc.Body()
	opts := rangy.DefaultCharacterOptions()

	runBench := func(name string, fn func() BenchResult) {
		fmt.Printf("  %-40s ", name+"...")
		result := fn()
		result.Name = name
		fmt.Printf("%v\n", result.Duration.Round(time.Millisecond))
		results = append(results, result)
	}

	fmt.Println("Text extraction:")
	var textLen int
	runBench("Inner text (cold session)", func() BenchResult {
		start := time.Now()
		text := lib.InnerText(body, opts)
		textLen = len([]rune(text))
		return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("%d chars", textLen)}
	})

	session := lib.NewSession()
	defer session.End()
	session.InnerText(body, opts)
	runBench("Inner text (warm session)", func() BenchResult {
		start := time.Now()
		session.InnerText(body, opts)
		st := session.Stats()
		return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("%d char hits, max depth %d", st.CharacterHits, st.MaxResolveDepth)}
	})

	fmt.Println("\nSearch:")
	whole := rangy.NodeContents(body)
	runBench("Find last paragraph marker", func() BenchResult {
		start := time.Now()
		term := fmt.Sprintf("needle%d", paragraphs-4)
		_, ok := session.FindText(whole.CollapseToStart(), term, rangy.DefaultFindOptions())
		return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("found=%v", ok)}
	})
	runBench("Find all (literal, whole words)", func() BenchResult {
		start := time.Now()
		findOpts := rangy.DefaultFindOptions()
		findOpts.WholeWordsOnly = true
		matches := lib.FindAll(whole, "tango", findOpts)
		return BenchResult{Duration: time.Since(start), Ops: len(matches)}
	})
	runBench("Find all (regexp)", func() BenchResult {
		re, err := rangy.CompilePattern(`needle\d+`, false)
		if err != nil {
			return BenchResult{Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		start := time.Now()
		count := 0
		r := whole.CollapseToStart()
		findOpts := rangy.DefaultFindOptions()
		findOpts.Within = &whole
		for count < ops {
			found, ok := session.FindRegexp(r, re, findOpts)
			if !ok {
				break
			}
			count++
			r = found.CollapseToEnd()
		}
		return BenchResult{Duration: time.Since(start), Ops: count}
	})

	fmt.Println("\nWords:")
	runBench("Word iteration (whole document)", func() BenchResult {
		start := time.Now()
		it := session.WordIterator(session.Position(body, 0), rangy.DefaultWordIteratorOptions())
		defer it.Dispose()
		count := 0
		for tok := it.Next(); tok != nil; tok = it.Next() {
			count++
		}
		return BenchResult{Duration: time.Since(start), Ops: count}
	})
	runBench("Word moves", func() BenchResult {
		start := time.Now()
		pos := session.Position(body, 0)
		moved := 0
		for i := 0; i < ops; i++ {
			res := session.MovePositionBy(pos, rangy.WordUnit, 1, rangy.DefaultMoveOptions())
			if res.UnitsMoved == 0 {
				break
			}
			pos = res.Position
			moved++
		}
		return BenchResult{Duration: time.Since(start), Ops: moved}
	})

	fmt.Println("\nOffsets:")
	runBench("Select characters / to character range", func() BenchResult {
		start := time.Now()
		mismatches := 0
		for i := 0; i < ops; i++ {
			a := rng.Intn(min(textLen, 5000))
			b := a + rng.Intn(40)
			r := session.SelectCharacters(body, a, b, opts)
			cr, err := session.ToCharacterRange(r, body, opts)
			if err != nil || cr.Start != a {
				mismatches++
			}
		}
		return BenchResult{Duration: time.Since(start), Ops: ops, Extra: fmt.Sprintf("%d start mismatches", mismatches)}
	})

	fmt.Println("\n" + strings.Repeat("=", 40))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 40))
	for _, r := range results {
		fmt.Println(r)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Println()
	fmt.Printf("Peak heap allocation: %d MB\n", m.HeapSys/(1024*1024))
	fmt.Printf("Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
}
