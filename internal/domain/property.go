package domain

import "time"

// Property is a single listing as authored in the data directory.
type Property struct {
	ID          string     `json:"id"`
	Adresse     string     `json:"adresse"`
	Gnr         *int       `json:"gnr"`
	Bnr         *int       `json:"bnr"`
	Beskrivelse string     `json:"beskrivelse"`
	HeroImage   string     `json:"heroImage,omitempty"`
	PlaaceData  PlaaceData `json:"plaaceData"`
	Metadata    Metadata   `json:"metadata"`
}

type PlaaceData struct {
	Nokkeldata  *Nokkeldata  `json:"nokkeldata,omitempty"`
	Screenshots []Screenshot `json:"screenshots,omitempty"`
}

// Nokkeldata holds the key metrics. Every field is optional in the source data.
type Nokkeldata struct {
	Energimerke    *string  `json:"energimerke"`
	Areal          *float64 `json:"areal"`
	ArealKontor    *float64 `json:"arealKontor"`
	ArealServering *float64 `json:"arealServering"`
	Byggeaar       *int     `json:"byggeaar"`
}

type Metadata struct {
	SistOppdatert *time.Time `json:"sistOppdatert,omitempty"`
}

// Screenshot is a labelled image entry shown in the tabbed viewer.
type Screenshot struct {
	Filnavn     string `json:"filnavn"`
	Path        string `json:"path"`
	Beskrivelse string `json:"beskrivelse"`
	Kategori    string `json:"kategori"`
}

// Key returns the key metrics, never nil.
func (p Property) Key() Nokkeldata {
	if p.PlaaceData.Nokkeldata == nil {
		return Nokkeldata{}
	}
	return *p.PlaaceData.Nokkeldata
}
