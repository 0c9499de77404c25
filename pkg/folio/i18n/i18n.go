// Package i18n translates user interface strings.
//
// Messages live in embedded TOML files, one per language, named
// active.<tag>.toml. Lookups never fail: a missing message falls back to
// English and then to its ID.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed locales/*.toml
var locales embed.FS

// Language is a selectable UI language.
type Language struct {
	Tag  string // BCP 47 tag, e.g. "de"
	Name string // Name in the language itself, e.g. "Deutsch"
}

// Translator looks up messages in the active language. It is safe for
// concurrent use: screens translate from Render while the settings screen
// switches languages from Loop.
type Translator struct {
	bundle *i18n.Bundle

	mu        sync.RWMutex
	tag       language.Tag
	localizer *i18n.Localizer
}

// New loads the embedded messages and activates lang.
func New(lang string) (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(locales, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	t := &Translator{bundle: bundle}
	if err := t.SetLanguage(lang); err != nil {
		return nil, err
	}
	return t, nil
}

// SetLanguage activates lang, which must be one of Languages.
func (t *Translator) SetLanguage(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", lang, err)
	}
	if !t.supported(tag) {
		return fmt.Errorf("unsupported language %q", lang)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.tag = tag
	t.localizer = i18n.NewLocalizer(t.bundle, tag.String(), language.English.String())
	return nil
}

// Language returns the active language tag.
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tag.String()
}

// Languages lists the available languages sorted by tag.
func (t *Translator) Languages() []Language {
	tags := t.bundle.LanguageTags()
	out := make([]Language, 0, len(tags))
	for _, tag := range tags {
		out = append(out, Language{Tag: tag.String(), Name: display.Self.Name(tag)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Tr returns the message id in the active language.
func (t *Translator) Tr(id string) string {
	return t.Trf(id, nil)
}

// Trf returns the message id with data applied to its template.
func (t *Translator) Trf(id string, data map[string]any) string {
	t.mu.RLock()
	loc := t.localizer
	t.mu.RUnlock()

	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

func (t *Translator) supported(tag language.Tag) bool {
	for _, have := range t.bundle.LanguageTags() {
		if have == tag {
			return true
		}
	}
	return false
}
