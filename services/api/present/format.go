package present

import (
	"embed"
	"math"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
)

var log = logrus.WithField("prefix", "present")

//go:embed locales/*.yaml
var locales embed.FS

var bundle = newBundle()

func newBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	entries, err := locales.ReadDir("locales")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		buf, err := locales.ReadFile("locales/" + e.Name())
		if err != nil {
			panic(err)
		}
		b.MustParseMessageFileBytes(buf, e.Name())
	}
	return b
}

// Indicator glyphs shown next to a delta.
const (
	UpIndicator   = "🔼"
	DownIndicator = "🔽"
)

// DateLayout is how report dates are shown.
const DateLayout = "02.01.2006 15:04"

// Formatter turns numbers and label ids into display strings for one locale.
type Formatter struct {
	tag       language.Tag
	printer   *message.Printer
	localizer *i18n.Localizer
}

// NewFormatter builds a formatter for locale. Unknown locales fall back to
// English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		log.WithField("locale", locale).Warn("unknown locale, using English")
		tag = language.English
	}
	return &Formatter{
		tag:       tag,
		printer:   message.NewPrinter(tag),
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
	}
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Unavailable is the marker shown for a missing value.
func (f *Formatter) Unavailable() string {
	return f.Label("Unavailable")
}

// Count rounds v to an integer and groups its digits.
func (f *Formatter) Count(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return f.Unavailable()
	}
	return f.printer.Sprintf("%d", int64(math.Round(*v)))
}

// Rate prints v with two decimals.
func (f *Formatter) Rate(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return f.Unavailable()
	}
	return f.printer.Sprintf("%.2f", *v)
}

// Delta prints the change as a count followed by its direction glyph.
func (f *Formatter) Delta(c pipeline.Comparison) string {
	glyph := DownIndicator
	if c.Direction == pipeline.Up {
		glyph = UpIndicator
	}
	return f.Count(&c.Delta) + " " + glyph
}

// Date prints a report date.
func (f *Formatter) Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Stamp prints a labelled report date, as in "Last Working Time: 31.03.2021 00:00".
func (f *Formatter) Stamp(labelID string, t time.Time) string {
	return f.Label(labelID) + ": " + f.Date(t)
}

// Label localizes a message id. Unknown ids are returned as they are.
func (f *Formatter) Label(id string) string {
	return f.LabelWith(id, nil)
}

// LabelWith localizes a message id with template data.
func (f *Formatter) LabelWith(id string, data map[string]any) string {
	s, err := f.localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		log.WithError(err).WithField("id", id).Debug("missing label")
		return id
	}
	return s
}

// ForCountry prefixes a localized title with the selected country.
func (f *Formatter) ForCountry(country, titleID string) string {
	return f.LabelWith("ForCountry", map[string]any{"Country": country, "Title": f.Label(titleID)})
}

// Line is one "label: value" row of a tooltip.
type Line struct {
	Label string
	Value string
}

// Tooltip joins lines into the markup map markers display.
func Tooltip(lines ...Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Label + ": " + l.Value
	}
	return strings.Join(parts, "<br>")
}
