// Package translate machine-translates recipe text.
//
// Translation is best effort: OrOriginal returns the input unchanged on any
// failure so callers never have to handle translation errors.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Translator translates a single piece of text into a fixed target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Noop returns text unchanged.
type Noop struct{}

// Translate implements Translator.
func (Noop) Translate(_ context.Context, text string) (string, error) {
	return text, nil
}

// SourceLanguage is the language recipes arrive in.
const SourceLanguage = "en"

// ErrUnknownLanguage is returned for codes that do not name a language.
var ErrUnknownLanguage = errors.New("unknown language")

// OrOriginal translates text with t. A nil translator, blank text, an error
// or a blank translation all yield text unchanged.
func OrOriginal(ctx context.Context, t Translator, text string) string {
	if t == nil || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := t.Translate(ctx, text)
	if err != nil || strings.TrimSpace(out) == "" {
		return text
	}
	return out
}

// ParseLanguage validates a BCP 47 code and returns its base language
// ("pl-PL" -> "pl").
func ParseLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnknownLanguage)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnknownLanguage, code, err)
	}
	if tag == language.Und {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return base.String(), nil
}

// DisplayName returns the English name for a language code, or the code
// itself when it cannot be resolved. Blank renders as "off".
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "off"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}

// Enabled reports whether translating into target would change anything.
func Enabled(target string) bool {
	base, err := ParseLanguage(target)
	return err == nil && base != SourceLanguage
}
