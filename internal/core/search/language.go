package search

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// languageAliases maps lowercase codes and names to the canonical language name the index uses
var languageAliases = map[string]string{
	"en": "English", "eng": "English", "english": "English",
	"fr": "French", "fre": "French", "fra": "French", "french": "French",
	"de": "German", "ger": "German", "deu": "German", "german": "German",
	"es": "Spanish", "spa": "Spanish", "spanish": "Spanish",
	"it": "Italian", "ita": "Italian", "italian": "Italian",
	"pt": "Portuguese", "por": "Portuguese", "portuguese": "Portuguese",
	"ru": "Russian", "rus": "Russian", "russian": "Russian",
	"zh": "Chinese", "chi": "Chinese", "zho": "Chinese", "chinese": "Chinese",
	"ja": "Japanese", "jpn": "Japanese", "japanese": "Japanese",
	"ar": "Arabic", "ara": "Arabic", "arabic": "Arabic",
	"la": "Latin", "lat": "Latin", "latin": "Latin",
	"nl": "Dutch", "dut": "Dutch", "nld": "Dutch", "dutch": "Dutch",
	"cy": "Welsh", "wel": "Welsh", "welsh": "Welsh",
	"ga": "Irish", "gle": "Irish", "irish": "Irish",
}

// CanonicalLanguage resolves an alias; on miss the input is returned with its case intact
func CanonicalLanguage(v string) (string, bool) {
	// a Caser carries state, so build one per call
	if c, ok := languageAliases[cases.Lower(language.Und).String(v)]; ok {
		return c, true
	}
	return v, false
}
