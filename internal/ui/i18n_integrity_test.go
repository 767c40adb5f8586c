package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-badi/internal/config"
)

var translationKeys = []string{
	config.TKeyWinSettings,
	config.TKeyWinUpcoming,
	config.TKeyMenuUpcoming,
	config.TKeyMenuRefresh,
	config.TKeyMenuSettings,
	config.TKeyTrayToday,
	config.TKeyTrayTodayHoly,
	config.TKeyTrayStatus,
	config.TKeyTrayStatusZero,
	config.TKeyNotifSuccess,
	config.TKeyNotifError,
	config.TKeyLblLanguage,
	config.TKeyHelpLanguage,
	config.TKeyLblRefresh,
	config.TKeyLblMinutes,
	config.TKeyHelpInterval,
	config.TKeyLblGeneral,
	config.TKeyBtnSave,
	config.TKeyBtnCancel,
	config.TKeyLblFooter,
	config.TKeyColDate,
	config.TKeyColStart,
	config.TKeyColEvent,
	config.TKeyFormatDateTime,
	config.TKeyErrIntervalNum,
	config.TKeyUpcomingEmpty,
}

func loadLocale(t *testing.T, lang string) map[string]any {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(config.LocalesDir, config.LocalePrefix+lang+config.LocaleSuffix))
	require.NoError(t, err, "must load locale %s", lang)

	var m map[string]any
	require.NoError(t, json.Unmarshal(content, &m), "locale %s must be valid JSON", lang)
	return m
}

// TestI18nIntegrity ensures every translation key used by the tray exists
// in every shipped locale, and that no locale carries unknown keys.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			locale := loadLocale(t, lang)
			for _, k := range translationKeys {
				assert.Containsf(t, locale, k, "key %q is missing in %s", k, lang)
			}
			for k := range locale {
				assert.Truef(t, defined[k], "key %q in %s is not used", k, lang)
			}
		})
	}
}

func TestI18nIntegrity_PluralForms(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		status, ok := loadLocale(t, lang)[config.TKeyTrayStatus].(map[string]any)
		require.Truef(t, ok, "%s: tray status must have plural forms", lang)
		assert.Contains(t, status, "one")
		assert.Contains(t, status, "other")
	}
}
