package models

import (
	"fmt"
	"strings"
)

// Condition is a card's physical grade, ordered best to worst
type Condition string

const (
	ConditionNM  Condition = "NM"  // Near Mint
	ConditionLP  Condition = "LP"  // Lightly Played
	ConditionMP  Condition = "MP"  // Moderately Played
	ConditionHP  Condition = "HP"  // Heavily Played
	ConditionDMG Condition = "DMG" // Damaged
)

// AllConditions returns every condition from best to worst
func AllConditions() []Condition {
	return []Condition{
		ConditionNM,
		ConditionLP,
		ConditionMP,
		ConditionHP,
		ConditionDMG,
	}
}

// ID returns the condition_id the backend seeds for this condition, or 0 if unknown.
func (c Condition) ID() uint {
	for i, cond := range AllConditions() {
		if cond == c {
			return uint(i + 1)
		}
	}
	return 0
}

// Name returns the long display name
func (c Condition) Name() string {
	switch c {
	case ConditionNM:
		return "Near Mint"
	case ConditionLP:
		return "Lightly Played"
	case ConditionMP:
		return "Moderately Played"
	case ConditionHP:
		return "Heavily Played"
	case ConditionDMG:
		return "Damaged"
	default:
		return string(c)
	}
}

// Better reports whether c is a strictly better grade than other.
func (c Condition) Better(other Condition) bool {
	a, b := c.ID(), other.ID()
	return a != 0 && b != 0 && a < b
}

// ConditionFromID maps a seeded condition_id back to its code
func ConditionFromID(id uint) (Condition, bool) {
	all := AllConditions()
	if id == 0 || int(id) > len(all) {
		return "", false
	}
	return all[id-1], true
}

// ParseCondition accepts condition codes and long names in any case.
func ParseCondition(s string) (Condition, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NM", "NEAR MINT", "MINT", "M":
		return ConditionNM, nil
	case "LP", "LIGHTLY PLAYED", "EX", "EXCELLENT":
		return ConditionLP, nil
	case "MP", "MODERATELY PLAYED", "GD", "GOOD":
		return ConditionMP, nil
	case "HP", "HEAVILY PLAYED", "PL", "PLAYED":
		return ConditionHP, nil
	case "DMG", "DAMAGED", "PR", "POOR":
		return ConditionDMG, nil
	default:
		return "", fmt.Errorf("unknown condition %q", s)
	}
}

// Language is the printed language of a card. The set is extensible on the
// backend; these are the languages seeded by the initial migration.
type Language string

const (
	LanguageEnglish  Language = "EN"
	LanguageJapanese Language = "JP"
	LanguageSpanish  Language = "ES"
	LanguageGerman   Language = "DE"
	LanguageFrench   Language = "FR"
	LanguageItalian  Language = "IT"
)

// AllLanguages returns the seeded card languages in id order
func AllLanguages() []Language {
	return []Language{
		LanguageEnglish,
		LanguageJapanese,
		LanguageSpanish,
		LanguageGerman,
		LanguageFrench,
		LanguageItalian,
	}
}

// ID returns the seeded language_id, or 0 if unknown.
func (l Language) ID() uint {
	for i, lang := range AllLanguages() {
		if lang == l {
			return uint(i + 1)
		}
	}
	return 0
}

// Name returns the English name of the language
func (l Language) Name() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageJapanese:
		return "Japanese"
	case LanguageSpanish:
		return "Spanish"
	case LanguageGerman:
		return "German"
	case LanguageFrench:
		return "French"
	case LanguageItalian:
		return "Italian"
	default:
		return string(l)
	}
}

// NormalizeLanguage maps language names, ISO codes and common variations to a
// Language code. Unknown values are upper-cased and passed through so that
// languages added on the backend keep working; empty input means English.
func NormalizeLanguage(lang string) Language {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "japanese", "jp", "ja", "jpn":
		return LanguageJapanese
	case "spanish", "es", "spa", "español":
		return LanguageSpanish
	case "german", "de", "deu", "ger":
		return LanguageGerman
	case "french", "fr", "fra", "fre":
		return LanguageFrench
	case "italian", "it", "ita":
		return LanguageItalian
	case "english", "en", "eng", "":
		return LanguageEnglish
	default:
		return Language(strings.ToUpper(strings.TrimSpace(lang)))
	}
}

// ConditionRecord is the backend lookup row behind condition_id
type ConditionRecord struct {
	ID   uint      `json:"id" gorm:"primaryKey"`
	Code Condition `json:"code" gorm:"not null;uniqueIndex"`
	Name string    `json:"name"`
}

func (ConditionRecord) TableName() string { return "conditions" }

// LanguageRecord is the backend lookup row behind language_id
type LanguageRecord struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Code Language `json:"code" gorm:"not null;uniqueIndex"`
	Name string   `json:"name"`
}

func (LanguageRecord) TableName() string { return "languages" }
