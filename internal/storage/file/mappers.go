package file

import (
	"path"
	"strconv"
	"strings"
	"time"

	"eiendom_showcase/internal/domain"
)

/********** alias registries **********/

var screenshotAliases = map[string][]string{
	"filnavn":     {"filnavn", "navn", "title"},
	"path":        {"path", "src", "url"},
	"beskrivelse": {"beskrivelse", "caption", "description"},
	"kategori":    {"kategori", "category"},
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the trimmed string at path or "".
func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// cleanNumber normalises Norwegian-style numbers: "1 200,5 m²" -> "1200.5".
// Spaces group thousands, comma is the decimal mark.
func cleanNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		}
	}
	out := b.String()
	// a lone dash is how the source sheets spell "no value"
	if out == "-" || out == "." {
		return ""
	}
	return out
}

// getFloatFlexible: number at path (float64/int/string like "1 200,5").
func getFloatFlexible(m map[string]any, path string) *float64 {
	switch v := lookupAny(m, path).(type) {
	case float64:
		f := v
		return &f
	case int:
		f := float64(v)
		return &f
	case string:
		s := cleanNumber(v)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// getIntFlexible: integer at path; fractional values are rejected.
func getIntFlexible(m map[string]any, path string) *int {
	f := getFloatFlexible(m, path)
	if f == nil || *f != float64(int(*f)) {
		return nil
	}
	n := int(*f)
	return &n
}

func getTime(m map[string]any, path string) *time.Time {
	s := lookupStr(m, path)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

/********** property mapper **********/

// mapProperty converts a validated document. fallbackID is used when the
// document carries no id of its own.
func mapProperty(doc map[string]any, fallbackID string) domain.Property {
	id := lookupStr(doc, "id")
	if id == "" {
		id = fallbackID
	}

	p := domain.Property{
		ID:          id,
		Adresse:     lookupStr(doc, "adresse"),
		Gnr:         getIntFlexible(doc, "gnr"),
		Bnr:         getIntFlexible(doc, "bnr"),
		Beskrivelse: lookupStr(doc, "beskrivelse"),
		HeroImage:   lookupStr(doc, "heroImage"),
		Metadata:    domain.Metadata{SistOppdatert: getTime(doc, "metadata.sistOppdatert")},
	}

	if nd, ok := lookupAny(doc, "plaaceData.nokkeldata").(map[string]any); ok {
		p.PlaaceData.Nokkeldata = &domain.Nokkeldata{
			Energimerke:    ptrStr(lookupStr(nd, "energimerke")),
			Areal:          getFloatFlexible(nd, "areal"),
			ArealKontor:    getFloatFlexible(nd, "arealKontor"),
			ArealServering: getFloatFlexible(nd, "arealServering"),
			Byggeaar:       getIntFlexible(nd, "byggeaar"),
		}
	}
	p.PlaaceData.Screenshots = mapScreenshots(lookupAny(doc, "plaaceData.screenshots"))
	return p
}

// mapScreenshots accepts objects or bare paths; entries without a path are dropped.
func mapScreenshots(raw any) []domain.Screenshot {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Screenshot, 0, len(items))
	for _, it := range items {
		switch t := it.(type) {
		case string:
			if p := strings.TrimSpace(t); p != "" {
				out = append(out, domain.Screenshot{Filnavn: path.Base(p), Path: p})
			}
		case map[string]any:
			s := domain.Screenshot{
				Filnavn:     firstNonEmptyAlias(t, screenshotAliases, "filnavn"),
				Path:        firstNonEmptyAlias(t, screenshotAliases, "path"),
				Beskrivelse: firstNonEmptyAlias(t, screenshotAliases, "beskrivelse"),
				Kategori:    firstNonEmptyAlias(t, screenshotAliases, "kategori"),
			}
			if s.Path == "" {
				continue
			}
			if s.Filnavn == "" {
				s.Filnavn = path.Base(s.Path)
			}
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
