package content

import "fmt"

// Language is a supported lesson language.
type Language string

const (
	LanguageKazakh  Language = "kk"
	LanguageRussian Language = "ru"
	LanguageEnglish Language = "en"
)

// Languages lists the supported languages.
var Languages = []Language{LanguageKazakh, LanguageRussian, LanguageEnglish}

// DefaultLanguage is used when nothing else is selected.
const DefaultLanguage = LanguageKazakh

var languageNames = map[Language]string{
	LanguageKazakh:  "Kazakh",
	LanguageRussian: "Russian",
	LanguageEnglish: "English",
}

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Name returns the English name of the language, as used in prompts.
func (l Language) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return languageNames[DefaultLanguage]
}

// ParseLanguage validates a language code.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown language %q: must be one of kk, ru, en", s)
	}
	return l, nil
}
