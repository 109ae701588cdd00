// Package tokenize provides deterministic word-segmentation for the
// lexical (BM25) side of the hybrid index. It targets Chinese and mixed
// Chinese/ASCII text.
package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Tokenize splits text into an ordered token sequence for BM25 indexing.
//
// It runs in "search mode": in addition to each CJK run's unigrams, it
// emits adjacent-rune bigrams so substring queries still match. The same
// function tokenizes both corpus documents and queries, so BM25 document
// frequencies stay internally consistent. Tokenize(s) always returns the
// same tokens for the same s within a process lifetime.
func Tokenize(text string) []string {
	runs := splitRuns(text)

	var tokens []string
	for _, r := range runs {
		if r.ascii {
			tokens = append(tokens, r.text)
			continue
		}
		tokens = append(tokens, cjkUnigrams(r.runes)...)
		tokens = append(tokens, cjkBigrams(r.runes)...)
	}
	return tokens
}

type run struct {
	ascii bool
	text  string  // valid when ascii
	runes []rune  // valid when !ascii
}

// splitRuns partitions text into maximal runs of "ascii word" characters
// (letters/digits, kept together as a single token) and runs of
// non-whitespace, non-punctuation, non-ASCII ("CJK-like") characters.
// Whitespace and punctuation are dropped entirely.
func splitRuns(text string) []run {
	var runs []run
	var asciiBuf strings.Builder
	var cjkBuf []rune

	flushAscii := func() {
		if asciiBuf.Len() > 0 {
			runs = append(runs, run{ascii: true, text: asciiBuf.String()})
			asciiBuf.Reset()
		}
	}
	flushCJK := func() {
		if len(cjkBuf) > 0 {
			runs = append(runs, run{runes: cjkBuf})
			cjkBuf = nil
		}
	}

	for _, r := range text {
		switch {
		case isASCIIWord(r):
			flushCJK()
			asciiBuf.WriteRune(r)
		case isSkippable(r):
			flushAscii()
			flushCJK()
		default:
			flushAscii()
			cjkBuf = append(cjkBuf, r)
		}
	}
	flushAscii()
	flushCJK()
	return runs
}

func isASCIIWord(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// isSkippable reports whether r is whitespace or common punctuation that
// should never surface as (part of) a token. Half-width/full-width
// punctuation are both covered via width folding.
func isSkippable(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return true
	}
	folded := width.Fold(r)
	return unicode.IsPunct(folded) || unicode.IsSymbol(folded)
}

// cjkUnigrams returns one token per rune in the run.
func cjkUnigrams(runes []rune) []string {
	tokens := make([]string, len(runes))
	for i, r := range runes {
		tokens[i] = string(r)
	}
	return tokens
}

// cjkBigrams returns one token per adjacent rune pair in the run. This is
// the "search mode" dual emission: combined with unigrams it lets a
// 2-character substring query hit documents containing a longer word that
// contains it, at the cost of noisier BM25 statistics (accepted per the
// original's own documented trade-off).
func cjkBigrams(runes []rune) []string {
	if len(runes) < 2 {
		return nil
	}
	tokens := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		tokens = append(tokens, string(runes[i])+string(runes[i+1]))
	}
	return tokens
}
