package asenum

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translations holds localized labels of enum values.
type Translations struct {
	builder *catalog.Builder
}

// NewTranslations returns an empty translation set falling back to
// English.
func NewTranslations() *Translations {
	return &Translations{builder: catalog.NewBuilder(catalog.Fallback(language.English))}
}

// DefaultTranslations is consulted by Enum.HumanName.
var DefaultTranslations = NewTranslations()

// Set registers the label of value name of attribute on host for tag.
func (t *Translations) Set(tag language.Tag, host, attribute, name, label string) error {
	return t.builder.SetString(tag, translationKey(host, attribute, name), label)
}

// Label returns the label of value name for tag. Values without a
// translation are humanized: "not_started" becomes "Not Started".
func (t *Translations) Label(tag language.Tag, host, attribute, name string) string {
	key := translationKey(host, attribute, name)
	if s := message.NewPrinter(tag, message.Catalog(t.builder)).Sprintf(key); s != key {
		return s
	}
	return cases.Title(tag).String(strings.ReplaceAll(name, "_", " "))
}

func translationKey(host, attribute, name string) string {
	return "asenum." + host + "." + attribute + "." + name
}
