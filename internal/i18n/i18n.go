// Package i18n holds the UI string table and the active display language.
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language is a UI language
type Language string

const (
	English Language = "EN"
	Spanish Language = "ES"
)

// ParseLanguage accepts "EN" or "ES" in any case
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToUpper(strings.TrimSpace(s))) {
	case English:
		return English, nil
	case Spanish:
		return Spanish, nil
	default:
		return "", fmt.Errorf("unsupported language %q (want EN or ES)", s)
	}
}

// Translator looks up UI strings in the active language. It is safe for
// concurrent use.
type Translator struct {
	mu   sync.RWMutex
	lang Language
}

// NewTranslator starts in lang, or English if lang is empty
func NewTranslator(lang Language) *Translator {
	if lang == "" {
		lang = English
	}
	return &Translator{lang: lang}
}

// T returns the translation of key, or key itself when the table has none
func (t *Translator) T(key string) string {
	t.mu.RLock()
	lang := t.lang
	t.mu.RUnlock()

	entry, ok := translations[key]
	if !ok {
		return key
	}
	if s := entry[lang]; s != "" {
		return s
	}
	return key
}

// Tf translates key and formats the result with args
func (t *Translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}

func (t *Translator) SetLanguage(lang Language) {
	t.mu.Lock()
	t.lang = lang
	t.mu.Unlock()
}

func (t *Translator) Language() Language {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}
