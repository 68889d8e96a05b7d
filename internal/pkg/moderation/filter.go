package moderation

import (
	"context"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

// builtinTerms are always blocked, in addition to the configured list.
var builtinTerms = []string{
	"fuck",
	"fucking",
	"motherfucker",
	"shit",
	"bullshit",
	"bitch",
	"bastard",
	"asshole",
	"dickhead",
	"slut",
	"whore",
	"kys",
	"kill yourself",
}

var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"@", "a",
	"$", "s",
)

// FilterConfig configures a TermFilter
type FilterConfig struct {
	BlockedTerms []string
	MaxLength    int
	CacheSize    int
}

// TermFilter is a Gate that rejects overlong text and text containing a
// blocked word or phrase. Matching happens on whole words after markup is
// stripped and the text is normalised.
type TermFilter struct {
	words     map[string]struct{}
	phrases   []string
	maxLength int
	strip     *bluemonday.Policy
	verdicts  *lru.Cache[string, string]
	logger    zerolog.Logger
}

// NewTermFilter builds a TermFilter from cfg
func NewTermFilter(cfg FilterConfig, logger zerolog.Logger) (*TermFilter, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = 1024
	}
	verdicts, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}

	f := &TermFilter{
		words:     make(map[string]struct{}),
		maxLength: cfg.MaxLength,
		strip:     bluemonday.StrictPolicy(),
		verdicts:  verdicts,
		logger:    logger,
	}

	for _, term := range append(append([]string{}, builtinTerms...), cfg.BlockedTerms...) {
		tokens := tokenize(normalize(term))
		switch len(tokens) {
		case 0:
		case 1:
			f.words[tokens[0]] = struct{}{}
		default:
			f.phrases = append(f.phrases, strings.Join(tokens, " "))
		}
	}

	return f, nil
}

// ValidateContent implements Gate
func (f *TermFilter) ValidateContent(ctx context.Context, text string, c Context) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if f.maxLength > 0 && utf8.RuneCountInString(text) > f.maxLength {
		return reject("Your %s is too long (maximum %d characters)", c.noun(), f.maxLength)
	}

	tokens := tokenize(normalize(html.UnescapeString(f.strip.Sanitize(text))))
	key := string(c) + "\x00" + strings.Join(tokens, " ")

	if term, ok := f.verdicts.Get(key); ok {
		return f.verdict(ctx, term, c)
	}

	term := f.match(tokens)
	f.verdicts.Add(key, term)
	return f.verdict(ctx, term, c)
}

func (f *TermFilter) verdict(ctx context.Context, term string, c Context) error {
	if term == "" {
		return nil
	}
	f.logger.Debug().Str("context", string(c)).Str("term", term).Msg("Content rejected by term filter")
	return reject("Your %s contains language that violates the community guidelines", c.noun())
}

// match returns the first blocked term found in tokens, or ""
func (f *TermFilter) match(tokens []string) string {
	for _, tok := range tokens {
		for _, candidate := range []string{tok, squeeze(tok, 2), squeeze(tok, 1)} {
			if _, ok := f.words[candidate]; ok {
				return candidate
			}
		}
	}

	if len(f.phrases) == 0 {
		return ""
	}
	joined := " " + strings.Join(tokens, " ") + " "
	for _, phrase := range f.phrases {
		if strings.Contains(joined, " "+phrase+" ") {
			return phrase
		}
	}
	return ""
}

func normalize(s string) string {
	return leetReplacer.Replace(strings.ToLower(s))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// squeeze collapses runs of the same rune longer than max down to max
func squeeze(s string, max int) string {
	var b strings.Builder
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run <= max {
			b.WriteRune(r)
		}
	}
	return b.String()
}
