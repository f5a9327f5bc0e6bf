package bar

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Languages lists the languages with a translated catalog; the first is the fallback.
var Languages = []language.Tag{language.English, language.German}

var (
	languageMatcher = language.NewMatcher(Languages)
	englishPrinter  = message.NewPrinter(language.English, message.Catalog(messages))
	messages        = buildCatalog()
)

// NewPrinter returns a printer for the best supported match of the Accept-Language value.
func NewPrinter(acceptLanguage string) *message.Printer {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, i, conf := languageMatcher.Match(tags...)
	if conf == language.No || i == 0 {
		return englishPrinter
	}
	return message.NewPrinter(Languages[i], message.Catalog(messages))
}

type unitMsg struct {
	key, one, other string
	deOne, deOther  string
}

var units = []unitMsg{
	{key: "%d years", one: "1 year", other: "%d years", deOne: "1 Jahr", deOther: "%d Jahre"},
	{key: "%d months", one: "1 month", other: "%d months", deOne: "1 Monat", deOther: "%d Monate"},
	{key: "%d weeks", one: "1 week", other: "%d weeks", deOne: "1 Woche", deOther: "%d Wochen"},
	{key: "%d days", one: "1 day", other: "%d days", deOne: "1 Tag", deOther: "%d Tage"},
	{key: "%d hours", one: "1 hour", other: "%d hours", deOne: "1 Stunde", deOther: "%d Stunden"},
	{key: "%d min", one: "1 min", other: "%d min", deOne: "1 Min.", deOther: "%d Min."},
	{key: "%d sec", one: "1 sec", other: "%d sec", deOne: "1 Sek.", deOther: "%d Sek."},
}

var german = map[string]string{
	"Home":                        "Startseite",
	"Front page":                  "Startseite",
	"View status report":          "Statusbericht anzeigen",
	"Execution time":              "Ausführungszeit",
	"Peak memory usage":           "Maximale Speichernutzung",
	"DB queries":                  "Datenbankabfragen",
	"View Go runtime information": "Informationen zur Go-Laufzeit anzeigen",
	"Run cron":                    "Cron ausführen",
	"Last run %s ago":             "Zuletzt vor %s ausgeführt",
	"Never run":                   "Noch nie ausgeführt",
	"Current branch":              "Aktueller Branch",
	"Log":                         "Protokoll",
	"Recent log messages":         "Aktuelle Protokollmeldungen",
	"Cache":                       "Cache",
	"Clear all caches":            "Alle Caches leeren",
	"Log in":                      "Anmelden",
	"View profile":                "Profil anzeigen",
	"Log out":                     "Abmelden",
	"Hide":                        "Ausblenden",
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, u := range units {
		mustSet(b.Set(language.English, u.key, plural.Selectf(1, "%d", "=1", u.one, "other", u.other)))
		mustSet(b.Set(language.German, u.key, plural.Selectf(1, "%d", "=1", u.deOne, "other", u.deOther)))
	}
	for k, v := range german {
		mustSet(b.SetString(language.German, k, v))
	}
	return b
}

func mustSet(err error) {
	if err != nil {
		panic("bar: build catalog: " + err.Error())
	}
}
