// Package marker holds the diagnostic and styling side-data a parse attaches
// to spans of source text: Markers (errors, warnings, info) and Styles
// (syntax-highlighting hints), plus the locale-aware rendering of marker
// messages.
package marker

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Severity classifies how serious a Marker is.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// Kind names a built-in marker category. Reduction actions may attach
// arbitrary markers through a Context that don't carry one of these Kinds;
// Kind is informational and used only to pick a catalog key.
type Kind string

const (
	UnknownToken Kind = "unknown_token"
	InsertedToken Kind = "inserted_token"
	MissingToken  Kind = "missing_token"
	TokenMutation Kind = "token_mutation"
	Ambiguous     Kind = "ambiguous"
)

// Marker is a diagnostic attached to a span of source text.
type Marker struct {
	Offset   int
	Length   int
	Severity Severity
	Kind     Kind

	// args are interpolated into the catalog message for Kind when Message
	// is called; for markers without a registered Kind, message is used
	// verbatim regardless of locale.
	message string
	args    []interface{}
}

// New returns a Marker with a literal message, not looked up in any locale
// catalog. Use this for reduction-action-authored markers that have no
// fixed Kind.
func New(offset, length int, sev Severity, msg string) *Marker {
	return &Marker{Offset: offset, Length: length, Severity: sev, message: msg}
}

// NewKind returns a Marker of a built-in Kind, whose message is resolved
// through the locale catalog at render time via Message.
func NewKind(offset, length int, sev Severity, kind Kind, args ...interface{}) *Marker {
	return &Marker{Offset: offset, Length: length, Severity: sev, Kind: kind, args: args}
}

var catalog = message.NewPrinter(language.AmericanEnglish)

// catalogFormats maps a built-in Kind to its default-locale format string.
// Additional locales are registered with RegisterLocale.
var catalogFormats = map[Kind]string{
	UnknownToken:  "unrecognized input %[1]q",
	InsertedToken: "expected %[1]s here",
	MissingToken:  "unexpected %[1]s",
	TokenMutation: "expected %[1]s, treating %[2]s as if it were",
	Ambiguous:     "ambiguous derivation",
}

var printers = map[string]*message.Printer{
	"en": catalog,
}

// RegisterLocale installs a catalog of Kind -> format-string for the given
// BCP-47 locale tag. Formats use the same %[n]v verbs as fmt, against the
// marker's args in order.
func RegisterLocale(locale string, formats map[Kind]string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return err
	}
	for kind, format := range formats {
		if err := message.SetString(tag, string(kind), format); err != nil {
			return err
		}
	}
	printers[locale] = message.NewPrinter(tag)
	return nil
}

// Message renders the marker's message for the given BCP-47 locale,
// defaulting to "en" if locale is empty or not registered.
func (m *Marker) Message(locale string) string {
	if m.Kind == "" {
		return m.message
	}
	p, ok := printers[locale]
	if !ok {
		p = catalog
	}
	format, ok := catalogFormats[m.Kind]
	if !ok {
		return m.message
	}
	return p.Sprintf(format, m.args...)
}
