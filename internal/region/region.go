// Package region defines the closed set of administrative regions carried by
// the regional feed. Codes match the upstream dataset's regional identifiers
// and never change; always address a region by its code, not by its position
// in the enumeration.
package region

import "fmt"

// Region pairs the upstream dataset's numeric regional code with the
// canonical display name.
type Region struct {
	Code int
	Name string
}

// String returns the canonical display name.
func (r Region) String() string {
	return r.Name
}

// The 21 administrative units tracked by the feed.
var (
	Abruzzo             = Region{13, "Abruzzo"}
	Basilicata          = Region{17, "Basilicata"}
	Calabria            = Region{18, "Calabria"}
	Campania            = Region{15, "Campania"}
	EmiliaRomagna       = Region{8, "Emilia-Romagna"}
	FriuliVeneziaGiulia = Region{6, "Friuli Venezia Giulia"}
	Lazio               = Region{12, "Lazio"}
	Liguria             = Region{7, "Liguria"}
	Lombardia           = Region{3, "Lombardia"}
	Marche              = Region{11, "Marche"}
	Molise              = Region{14, "Molise"}
	PABolzano           = Region{21, "P.A. Bolzano"}
	PATrento            = Region{22, "P.A. Trento"}
	Piemonte            = Region{1, "Piemonte"}
	Puglia              = Region{16, "Puglia"}
	Sardegna            = Region{20, "Sardegna"}
	Sicilia             = Region{19, "Sicilia"}
	Toscana             = Region{9, "Toscana"}
	Umbria              = Region{10, "Umbria"}
	ValleDAosta         = Region{2, "Valle d'Aosta"}
	Veneto              = Region{5, "Veneto"}
)

// all holds the enumeration in canonical order. Ranking ties are broken by
// this order, so it must stay stable across releases.
var all = []Region{
	Abruzzo, Basilicata, Calabria, Campania, EmiliaRomagna,
	FriuliVeneziaGiulia, Lazio, Liguria, Lombardia, Marche, Molise,
	PABolzano, PATrento, Piemonte, Puglia, Sardegna, Sicilia, Toscana,
	Umbria, ValleDAosta, Veneto,
}

var byCode = func() map[int]Region {
	m := make(map[int]Region, len(all))
	for _, r := range all {
		m[r.Code] = r
	}
	return m
}()

// All returns the enumeration in canonical order. The returned slice is a
// copy; callers may reorder it freely.
func All() []Region {
	out := make([]Region, len(all))
	copy(out, all)
	return out
}

// Count is the number of enumerated regions.
func Count() int {
	return len(all)
}

// FromCode looks up a region by its upstream dataset code.
func FromCode(code int) (Region, error) {
	r, ok := byCode[code]
	if !ok {
		return Region{}, fmt.Errorf("unknown region code %d", code)
	}
	return r, nil
}
