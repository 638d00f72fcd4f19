// Package normalize cleans values typed or pasted into search and grid inputs
// Pipeline order
// 1 drop control characters and invalid UTF-8 bytes
// 2 Unicode NFKC normalization
// 3 remove format characters (zero-width joiners, BOMs, soft hyphens)
// 4 width fold fullwidth forms to ASCII
// 5 collapse whitespace runs to single spaces and trim
//
// Case and diacritics are preserved; the search backend handles those itself.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Value returns the cleaned single-line form of s
func Value(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}
	return strings.Join(strings.Fields(ns), " ")
}
