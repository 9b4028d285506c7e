package main

import (
	"fmt"
	"strings"

	"github.com/notjosh/rangy"
)

type textResult struct {
	Text string `yaml:"text" toml:"text"`
}

type matchResult struct {
	Start int    `yaml:"start" toml:"start"`
	End   int    `yaml:"end" toml:"end"`
	Text  string `yaml:"text" toml:"text"`
}

type findResult struct {
	Term    string        `yaml:"term" toml:"term"`
	Matches []matchResult `yaml:"matches" toml:"matches"`
}

type tokenResult struct {
	Text  string `yaml:"text" toml:"text"`
	Word  bool   `yaml:"word" toml:"word"`
	Start int    `yaml:"start" toml:"start"`
	End   int    `yaml:"end" toml:"end"`
}

type wordsResult struct {
	From   int           `yaml:"from" toml:"from"`
	Tokens []tokenResult `yaml:"tokens" toml:"tokens"`
}

type offsetsResult struct {
	Start         int    `yaml:"start" toml:"start"`
	End           int    `yaml:"end" toml:"end"`
	Text          string `yaml:"text" toml:"text"`
	StartBoundary string `yaml:"start_boundary" toml:"start_boundary"`
	EndBoundary   string `yaml:"end_boundary" toml:"end_boundary"`
}

type moveResult struct {
	From      int    `yaml:"from" toml:"from"`
	Unit      string `yaml:"unit" toml:"unit"`
	Requested int    `yaml:"requested" toml:"requested"`
	Moved     int    `yaml:"moved" toml:"moved"`
	Offset    int    `yaml:"offset" toml:"offset"`
}

type findRequest struct {
	Term          string
	Regexp        bool
	CaseSensitive bool
	WholeWords    bool
	Backward      bool
	Limit         int
}

// innerText returns the container's visible text.
func (w *workspace) innerText(s *rangy.Session) textResult {
	return textResult{Text: s.InnerText(w.container, cfg.CharacterOptions())}
}

// find collects matches inside the container in search order.
func (w *workspace) find(s *rangy.Session, req findRequest) (findResult, error) {
	res := findResult{Term: req.Term}
	scope := rangy.NodeContents(w.container)
	opts := rangy.FindOptions{
		CaseSensitive:  req.CaseSensitive,
		WholeWordsOnly: req.WholeWords,
		Within:         &scope,
		Character:      cfg.CharacterOptions(),
		Word:           cfg.WordOptions(),
	}
	r := scope.CollapseToStart()
	if req.Backward {
		opts.Direction = rangy.Backward
		r = scope.CollapseToEnd()
	}

	search := func(r rangy.Range) (rangy.Range, bool) {
		return s.FindText(r, req.Term, opts)
	}
	if req.Regexp {
		re, err := rangy.CompilePattern(req.Term, !req.CaseSensitive)
		if err != nil {
			return res, err
		}
		search = func(r rangy.Range) (rangy.Range, bool) {
			return s.FindRegexp(r, re, opts)
		}
	}

	for req.Limit <= 0 || len(res.Matches) < req.Limit {
		found, ok := search(r)
		if !ok {
			break
		}
		cr, err := s.ToCharacterRange(found, w.container, opts.Character)
		if err != nil {
			return res, err
		}
		res.Matches = append(res.Matches, matchResult{
			Start: cr.Start,
			End:   cr.End,
			Text:  s.Text(found, opts.Character),
		})
		if req.Backward {
			r = found.CollapseToStart()
		} else {
			r = found.CollapseToEnd()
		}
	}
	return res, nil
}

// boundaryAt returns the boundary after the first offset characters of the
// container.
func (w *workspace) boundaryAt(s *rangy.Session, offset int) rangy.Boundary {
	return s.SelectCharacters(w.container, offset, offset, cfg.CharacterOptions()).Start
}

func (w *workspace) offsetOf(s *rangy.Session, b rangy.Boundary) (int, error) {
	cr, err := s.ToCharacterRange(rangy.Range{Start: b, End: b}, w.container, cfg.CharacterOptions())
	if err != nil {
		return 0, err
	}
	return cr.Start, nil
}

// words lists tokens from a character offset.
func (w *workspace) words(s *rangy.Session, from int, backward bool, limit int) (wordsResult, error) {
	res := wordsResult{From: from}
	opts := rangy.WordIteratorOptions{
		Character: cfg.CharacterOptions(),
		Word:      cfg.WordOptions(),
	}
	if backward {
		opts.Direction = rangy.Backward
	}
	b := w.boundaryAt(s, from)
	it := s.WordIterator(s.Position(b.Node, b.Offset), opts)
	defer it.Dispose()

	for tok := it.Next(); tok != nil; tok = it.Next() {
		if limit > 0 && len(res.Tokens) >= limit {
			break
		}
		start, err := w.offsetOf(s, tok.Start())
		if err != nil {
			return res, err
		}
		res.Tokens = append(res.Tokens, tokenResult{
			Text:  tok.String(),
			Word:  tok.IsWord,
			Start: start,
			End:   start + len(tok.Chars),
		})
	}
	return res, nil
}

// offsets selects characters [start, end) and reports the resulting range.
func (w *workspace) offsets(s *rangy.Session, start, end int) (offsetsResult, error) {
	opts := cfg.CharacterOptions()
	r := s.SelectCharacters(w.container, start, end, opts)
	cr, err := s.ToCharacterRange(r, w.container, opts)
	if err != nil {
		return offsetsResult{}, err
	}
	return offsetsResult{
		Start:         cr.Start,
		End:           cr.End,
		Text:          s.Text(r, opts),
		StartBoundary: r.Start.String(),
		EndBoundary:   r.End.String(),
	}, nil
}

func parseUnit(name string) (rangy.Unit, error) {
	switch strings.ToLower(name) {
	case "character", "char", "c":
		return rangy.CharacterUnit, nil
	case "word", "w":
		return rangy.WordUnit, nil
	}
	return 0, fmt.Errorf("unknown unit %q: use character or word", name)
}

// move moves a caret at a character offset by count units.
func (w *workspace) move(s *rangy.Session, from int, unit rangy.Unit, count int) (moveResult, error) {
	b := w.boundaryAt(s, from)
	opts := rangy.MoveOptions{Character: cfg.CharacterOptions(), Word: cfg.WordOptions()}
	moved := s.MovePositionBy(s.Position(b.Node, b.Offset), unit, count, opts)
	offset, err := w.offsetOf(s, moved.Position.Boundary())
	if err != nil {
		return moveResult{}, err
	}
	return moveResult{
		From:      from,
		Unit:      unit.String(),
		Requested: count,
		Moved:     moved.UnitsMoved,
		Offset:    offset,
	}, nil
}
