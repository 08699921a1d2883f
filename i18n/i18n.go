// Package i18n localizes textkit's own user-facing messages through
// gotext. The shipped locales are embedded in the binary; a missing
// translation falls back to the English source string.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the tool's translation files, laid out as
// locales/{lang}/LC_MESSAGES/textkit.po.
//
//go:embed all:locales
var locales embed.FS

const domain = "textkit"

var locale *gotext.Locale

// Init loads the locale for lang, or auto-detects it from LANGUAGE,
// LC_ALL, LC_MESSAGES and LANG when lang is empty. Call once at startup.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	locale = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// T translates a message, returning it unchanged when no translation is
// loaded.
func T(msgid string) string {
	if locale == nil {
		return msgid
	}
	return locale.Get(msgid)
}

// detectLanguage picks the user language from the environment, in GNU
// gettext priority order.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
