// Package format renders amounts for speech and terminal output.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders integers with locale thousands separators.
type Formatter struct {
	printer *message.Printer
}

// New returns a Formatter for the given BCP 47 tag. Unknown tags fall back to English.
func New(tag string) *Formatter {
	lang, err := language.Parse(tag)
	if err != nil {
		lang = language.English
	}
	return &Formatter{printer: message.NewPrinter(lang)}
}

// Default returns an English formatter.
func Default() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.English)}
}

// Amount formats n with thousands separators, e.g. 2050 -> "2,050".
func (f *Formatter) Amount(n int64) string {
	return f.printer.Sprintf("%d", n)
}
