// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package selection

import (
	"strings"

	"github.com/tomtom215/crateseek/internal/artist"
)

// Era buckets, coarse chronological classifications used for the
// per-era diversity cap.
const (
	EraClassic      = "classic"
	EraRetro        = "retro"
	EraModern       = "modern"
	EraContemporary = "contemporary"
)

// eraBucketCount is the number of distinct era buckets, used to bound
// the era component of the diversity score.
const eraBucketCount = 4

// genreEras maps known genre and tag strings to era buckets. Keys are
// lowercase.
var genreEras = map[string]string{
	"classical": EraClassic,
	"opera":     EraClassic,
	"jazz":      EraClassic,
	"blues":     EraClassic,
	"swing":     EraClassic,

	"rock":        EraRetro,
	"metal":       EraRetro,
	"funk":        EraRetro,
	"disco":       EraRetro,
	"soul":        EraRetro,
	"motown":      EraRetro,
	"punk":        EraRetro,
	"new wave":    EraRetro,
	"psychedelic": EraRetro,

	"electronic":    EraModern,
	"house":         EraModern,
	"techno":        EraModern,
	"hip hop":       EraModern,
	"rap":           EraModern,
	"grunge":        EraModern,
	"trip hop":      EraModern,
	"drum and bass": EraModern,
}

// ClassifyEra assigns an artist to an era bucket. Known genres and tags
// are looked up first; failing that, name substrings give a hint
// ("classic" skews old, "modern"/"new" skews recent); everything else
// lands in the contemporary bucket.
func ClassifyEra(a artist.SimilarArtist) string {
	for _, g := range a.Genres {
		if era, ok := genreEras[strings.ToLower(g)]; ok {
			return era
		}
	}
	for _, t := range a.Tags {
		if era, ok := genreEras[strings.ToLower(t)]; ok {
			return era
		}
	}

	name := strings.ToLower(a.Name)
	if strings.Contains(name, "classic") {
		return EraClassic
	}
	if strings.Contains(name, "modern") || strings.Contains(name, "new") {
		return EraModern
	}

	return EraContemporary
}
