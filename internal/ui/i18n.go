package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-badi/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n loads every embedded locale and selects the preferred one.
func (t *BadiTray) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		code, ok := strings.CutPrefix(name, config.LocalePrefix)
		if !ok || !strings.HasSuffix(code, config.LocaleSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		code = strings.TrimSuffix(code, config.LocaleSuffix)
		if code == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join(config.LocalesDir, name)); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		langs = append(langs, code)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
		)
	}

	t.SupportedLanguages = langs
	t.I18nBundle = bundle
	t.UpdateLocalizer()
}

// UpdateLocalizer follows the language preference.
func (t *BadiTray) UpdateLocalizer() {
	lang := t.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	t.Localizer = i18n.NewLocalizer(t.I18nBundle, lang)
}

// GetMsg translates key, or returns it unchanged when it has no translation.
func (t *BadiTray) GetMsg(key string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key})
}

func (t *BadiTray) localize(lc *i18n.LocalizeConfig) string {
	if t.Localizer == nil {
		return lc.MessageID
	}
	msg, err := t.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}
