package i18n

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTranslate(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if got := tr.Tr("Booting"); got != "Booting" {
		t.Errorf("Tr(Booting) = %q", got)
	}
	if got := tr.Trf("PageOf", map[string]any{"Page": 3, "Total": 10}); got != "Page 3 of 10" {
		t.Errorf("Trf(PageOf) = %q", got)
	}
	if got := tr.Tr("NoSuchMessage"); got != "NoSuchMessage" {
		t.Errorf("Tr() of unknown id = %q, want the id", got)
	}

	if err := tr.SetLanguage("de"); err != nil {
		t.Fatalf("SetLanguage(de) = %v", err)
	}
	if got := tr.Tr("Library"); got != "Bibliothek" {
		t.Errorf("Tr(Library) in German = %q", got)
	}
	if got := tr.Language(); got != "de" {
		t.Errorf("Language() = %q, want de", got)
	}
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	tr, err := New("fr")
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	for _, lang := range []string{"xx-invalid-!!", "ja"} {
		if err := tr.SetLanguage(lang); err == nil {
			t.Errorf("SetLanguage(%q) succeeded", lang)
		}
	}
	if got := tr.Language(); got != "fr" {
		t.Errorf("Language() after rejected change = %q, want fr", got)
	}

	if _, err := New("ja"); err == nil {
		t.Error("New(ja) succeeded")
	}
}

func TestLanguages(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	want := []Language{
		{Tag: "de", Name: "Deutsch"},
		{Tag: "en", Name: "English"},
		{Tag: "es", Name: "español"},
		{Tag: "fr", Name: "français"},
	}
	if diff := cmp.Diff(want, tr.Languages()); diff != "" {
		t.Errorf("Languages() mismatch (-want +got):\n%s", diff)
	}
}

func TestEveryLanguageHasEveryMessage(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	ids := []string{"Booting", "Library", "Settings", "Recovery", "GoToPercent", "Sleeping"}
	for _, lang := range tr.Languages() {
		if err := tr.SetLanguage(lang.Tag); err != nil {
			t.Fatalf("SetLanguage(%s) = %v", lang.Tag, err)
		}
		for _, id := range ids {
			if got := tr.Tr(id); got == id && lang.Tag != "en" {
				t.Errorf("%s: %s not translated", lang.Tag, id)
			}
		}
	}
}
