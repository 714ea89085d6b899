package compare

import (
	"strconv"
	"strings"
	"time"

	"eiendom_showcase/internal/domain"
)

// Placeholder is shown for values that are missing.
const Placeholder = "-"

// Row is one line of the comparison table.
type Row struct {
	Label     string
	Left      string
	Right     string
	Highlight bool
}

// Differs compares the rendered strings, so 1200 and 1200.0 are equal.
func (r Row) Differs() bool { return r.Left != r.Right }

// Bold is set on both cells of a highlighted row whose values differ.
func (r Row) Bold() bool { return r.Highlight && r.Differs() }

type metric struct {
	label     string
	highlight bool
	value     func(p domain.Property, loc *time.Location) string
}

var metrics = []metric{
	{"Gårdsnummer", false, func(p domain.Property, _ *time.Location) string { return intStr(p.Gnr) }},
	{"Bruksnummer", false, func(p domain.Property, _ *time.Location) string { return intStr(p.Bnr) }},
	{"Energimerke", true, func(p domain.Property, _ *time.Location) string { return str(p.Key().Energimerke) }},
	{"Totalt areal", true, func(p domain.Property, _ *time.Location) string { return floatStr(p.Key().Areal) }},
	{"Kontorareal", false, func(p domain.Property, _ *time.Location) string { return floatStr(p.Key().ArealKontor) }},
	{"Serveringsareal", false, func(p domain.Property, _ *time.Location) string { return floatStr(p.Key().ArealServering) }},
	{"Byggeår", true, func(p domain.Property, _ *time.Location) string { return intStr(p.Key().Byggeaar) }},
	{"Sist oppdatert", false, func(p domain.Property, loc *time.Location) string {
		return FormatDate(p.Metadata.SistOppdatert, loc)
	}},
}

// Rows builds the table for two loaded properties. loc decides which calendar
// day a timestamp falls on; nil means UTC.
func Rows(left, right domain.Property, loc *time.Location) []Row {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Row, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, Row{
			Label:     m.label,
			Left:      m.value(left, loc),
			Right:     m.value(right, loc),
			Highlight: m.highlight,
		})
	}
	return out
}

// Heading is the address up to the first comma, used as a column title.
func Heading(adresse string) string {
	head, _, _ := strings.Cut(adresse, ",")
	return head
}

// FormatDate renders a timestamp the way nb-NO short dates look: 1.2.2025.
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.In(loc).Format("2.1.2006")
}

func str(p *string) string {
	if p == nil || *p == "" {
		return Placeholder
	}
	return *p
}

func intStr(p *int) string {
	if p == nil {
		return Placeholder
	}
	return strconv.Itoa(*p)
}

func floatStr(p *float64) string {
	if p == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
