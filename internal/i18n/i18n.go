// Package i18n holds the localized user-visible defaults and error texts.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	UnknownLocation = "Unknown location"
	UnknownCar      = "Unknown Car"
	AnonymousUser   = "Anonymous User"
	SearchFailed    = "Search failed: %v"
	CarNotFound     = "Car not found"
	ReviewsFailed   = "Failed to fetch reviews: %v"
)

// Supported lists the languages the app ships, default first.
var Supported = []language.Tag{language.English, language.French, language.Arabic}

var matcher = language.NewMatcher(Supported)

func init() {
	entries := map[language.Tag]map[string]string{
		language.English: {
			UnknownLocation: "Unknown location",
			UnknownCar:      "Unknown Car",
			AnonymousUser:   "Anonymous User",
			SearchFailed:    "Search failed: %v",
			CarNotFound:     "Car not found",
			ReviewsFailed:   "Failed to fetch reviews: %v",
		},
		language.French: {
			UnknownLocation: "Emplacement inconnu",
			UnknownCar:      "Voiture inconnue",
			AnonymousUser:   "Utilisateur anonyme",
			SearchFailed:    "Échec de la recherche : %v",
			CarNotFound:     "Voiture introuvable",
			ReviewsFailed:   "Échec du chargement des avis : %v",
		},
		language.Arabic: {
			UnknownLocation: "موقع غير معروف",
			UnknownCar:      "سيارة غير معروفة",
			AnonymousUser:   "مستخدم مجهول",
			SearchFailed:    "فشل البحث: %v",
			CarNotFound:     "السيارة غير موجودة",
			ReviewsFailed:   "فشل تحميل التقييمات: %v",
		},
	}

	for tag, msgs := range entries {
		for key, msg := range msgs {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Match returns the best supported language for an Accept-Language header
// or a bare tag such as "fr". Unparseable input yields English.
func Match(accept string) language.Tag {
	tag, _ := Negotiate(accept)
	return tag
}

// Negotiate is Match that also reports whether any supported language was
// acceptable. When it was not, the returned tag is English.
func Negotiate(accept string) (language.Tag, bool) {
	if strings.TrimSpace(accept) == "" {
		return language.English, false
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return language.English, false
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.English, false
	}
	return Supported[idx], true
}

// Lookup parses s and reports whether it names a supported language exactly
// (by base language, so "fr-CA" is accepted as French).
func Lookup(s string) (language.Tag, bool) {
	if strings.TrimSpace(s) == "" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	base, _ := tag.Base()
	for _, sup := range Supported {
		if b, _ := sup.Base(); b == base {
			return sup, true
		}
	}
	return language.Und, false
}

// IsRTL reports whether the language is written right to left.
func IsRTL(tag language.Tag) bool {
	base, _ := tag.Base()
	switch base.String() {
	case "ar", "he", "fa", "ur":
		return true
	}
	return false
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
