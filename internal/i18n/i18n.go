// Package i18n localises the data labels produced by the engine.
package i18n

import (
	"embed"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/score"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves translation keys for one language.
type Translator struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	lang      string

	// Languages lists the language codes found in the embedded locales.
	Languages []string
}

// New loads the embedded locales and selects lang (config.DefaultLanguage when empty).
func New(lang string) *Translator {
	bundle := goi18n.NewBundle(language.Vietnamese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	tr := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		tr.SetLanguage(lang)
		return tr
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		tr.Languages = append(tr.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	tr.SetLanguage(lang)
	return tr
}

// SetLanguage switches the active language. Languages outside
// config.SupportedLanguages fall back to config.DefaultLanguage.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	if !slices.Contains(config.SupportedLanguages, lang) {
		slog.Warn(config.MsgLangFallback,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, lang,
		)
		lang = config.DefaultLanguage
	}
	t.lang = lang
	t.localizer = goi18n.NewLocalizer(t.bundle, lang)
}

// Language returns the active language code.
func (t *Translator) Language() string {
	return t.lang
}

// Msg translates a key, returning the key itself when it is missing.
func (t *Translator) Msg(key string) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// QualityLabel returns the localised label of a quality band.
func (t *Translator) QualityLabel(q score.Quality) string {
	key := q.LabelKey()
	if msg := t.Msg(key); msg != key {
		return msg
	}
	return q.Label()
}
