// Package language decides which language tag, if any, should hint the
// text-to-speech voice: an explicit user directive ("speak in French")
// always wins; otherwise a lightweight statistical detection runs against
// the assistant's own output.
package language

import (
	"regexp"
	"strings"
	"unicode"
)

// languageAliases maps natural-language names (English and French forms)
// to canonical short tags. Adding a language means adding rows here, not
// touching control flow.
var languageAliases = map[string]string{
	"english":    "en",
	"anglais":    "en",
	"french":     "fr",
	"français":   "fr",
	"francais":   "fr",
	"spanish":    "es",
	"espagnol":   "es",
	"español":    "es",
	"espanol":    "es",
	"german":     "de",
	"allemand":   "de",
	"deutsch":    "de",
	"italian":    "it",
	"italien":    "it",
	"italiano":   "it",
	"portuguese": "pt",
	"portugais":  "pt",
	"português":  "pt",
	"portugues":  "pt",
	"arabic":     "ar",
	"arabe":      "ar",
	"japanese":   "ja",
	"japonais":   "ja",
	"korean":     "ko",
	"coréen":     "ko",
	"coreen":     "ko",
	"chinese":    "zh",
	"chinois":    "zh",
	"mandarin":   "zh",
	"russian":    "ru",
	"russe":      "ru",
	"hindi":      "hi",
}

// directivePattern matches "speak/talk/respond/reply/answer/switch in|to X"
// and the French equivalents "parle/réponds/passe en|au X".
var directivePattern = regexp.MustCompile(
	`(?i)\b(?:speak|talk|respond|reply|answer|switch)\s+(?:in|to)\s+([\p{L}]+)` +
		`|\b(?:parle[sz]?|parler|réponds|reponds|répondez|repondez|répondre|repondre|passe[sz]?)\s+(?:en|au|à|a)\s+([\p{L}]+)`)

// ExtractPreferredLanguageTag looks for an explicit spoken-language
// instruction in the text and returns the canonical tag when found.
func ExtractPreferredLanguageTag(text string) (string, bool) {
	m := directivePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	tag, ok := languageAliases[strings.ToLower(name)]
	return tag, ok
}

// scriptRange is a contiguous Unicode block associated with one language tag
type scriptRange struct {
	tag      string
	lo, hi   rune
	extraLo  rune
	extraHi  rune
	hasExtra bool
}

// Checked in this fixed order: kana and hangul before the generic CJK
// block, since mixed text can contain characters from several blocks.
var scriptRanges = []scriptRange{
	{tag: "ja", lo: 0x3040, hi: 0x30FF},                                         // hiragana + katakana
	{tag: "ko", lo: 0xAC00, hi: 0xD7AF, extraLo: 0x1100, extraHi: 0x11FF, hasExtra: true}, // hangul syllables + jamo
	{tag: "ar", lo: 0x0600, hi: 0x06FF},
	{tag: "ru", lo: 0x0400, hi: 0x04FF},
	{tag: "hi", lo: 0x0900, hi: 0x097F}, // devanagari
	{tag: "zh", lo: 0x4E00, hi: 0x9FFF}, // CJK unified ideographs
}

// Stop-word sets for Latin-script scoring. Tokens shorter than two runes
// never reach these tables.
var stopWords = map[string][]string{
	"en": {"the", "and", "is", "are", "was", "were", "you", "your", "for", "that", "this", "with", "have", "has", "what", "how", "not", "can", "will", "but", "they", "there", "would", "about", "here"},
	"fr": {"le", "la", "les", "un", "une", "des", "de", "du", "au", "aux", "et", "ou", "est", "sont", "je", "tu", "il", "elle", "on", "nous", "vous", "ne", "pas", "que", "qui", "quoi", "comment", "puis", "dans", "pour", "sur", "avec", "mais", "très", "tres", "bien", "merci", "oui", "voici"},
	"es": {"el", "los", "las", "una", "del", "es", "en", "que", "qué", "no", "sí", "si", "con", "para", "por", "como", "cómo", "yo", "usted", "él", "ella", "está", "esta", "son", "pero", "más", "mas", "gracias", "hola", "puedo", "ayudar"},
	"de": {"der", "die", "das", "und", "ist", "sind", "nicht", "ich", "du", "sie", "wir", "ihr", "ein", "eine", "mit", "für", "fur", "auf", "den", "dem", "zu", "von", "wie", "was", "aber", "auch", "kann", "danke", "hallo"},
	"it": {"il", "lo", "gli", "uno", "di", "del", "della", "che", "chi", "non", "con", "per", "come", "io", "lui", "lei", "noi", "voi", "sono", "sei", "ma", "più", "piu", "bene", "grazie", "ciao", "posso", "aiutare"},
	"pt": {"os", "as", "um", "uma", "do", "da", "dos", "das", "é", "são", "sao", "não", "nao", "sim", "com", "para", "por", "como", "eu", "você", "voce", "ele", "ela", "mas", "mais", "bem", "obrigado", "olá", "ola", "posso", "ajudar"},
}

// Detection thresholds: at least this many tokens overall before scoring is
// attempted, and at least this many matches for a strict winner.
const (
	minTokens  = 3
	minMatches = 2
)

// DetectLanguageTag infers the language of the text. Script-range checks
// run first; Latin-script text falls back to stop-word scoring. Returns
// false when the text is too short or the scores are ambiguous.
func DetectLanguageTag(text string) (string, bool) {
	for _, sr := range scriptRanges {
		for _, r := range text {
			if (r >= sr.lo && r <= sr.hi) || (sr.hasExtra && r >= sr.extraLo && r <= sr.extraHi) {
				return sr.tag, true
			}
		}
	}

	tokens := tokenize(text)
	if len(tokens) < minTokens {
		return "", false
	}

	best, bestScore, runnerUp := "", 0, 0
	for tag, words := range stopWords {
		score := 0
		for _, tok := range tokens {
			for _, w := range words {
				if tok == w {
					score++
					break
				}
			}
		}
		switch {
		case score > bestScore:
			runnerUp = bestScore
			best, bestScore = tag, score
		case score > runnerUp:
			runnerUp = score
		}
	}

	if bestScore < minMatches || bestScore == runnerUp {
		return "", false
	}
	return best, true
}

// tokenize splits the text into lowercase word-like runs of letters,
// dropping anything shorter than two runes.
func tokenize(text string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) >= 2 {
			tokens = append(tokens, string(cur))
		}
		cur = cur[:0]
	}
	for _, r := range text {
		if unicode.IsLetter(r) {
			cur = append(cur, unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return tokens
}
