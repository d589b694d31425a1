// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package pipeline

import (
	"context"
	"fmt"

	"github.com/tomtom215/crateseek/internal/artist"
	"github.com/tomtom215/crateseek/internal/metrics"
)

// defaultSourceDurationSeconds stands in for a missing or invalid
// source video duration when picking a clip window.
const defaultSourceDurationSeconds = 240

// interleaveByArtist reorders videos round-robin across attributed
// artists, preserving each artist's internal ranking, so one artist's
// videos do not front-load the clip list.
func interleaveByArtist(videos []VideoCandidate) []VideoCandidate {
	order := make([]string, 0)
	groups := make(map[string][]VideoCandidate)

	for _, v := range videos {
		key := artist.NormalizeName(v.AttributedArtist)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}

	out := make([]VideoCandidate, 0, len(videos))
	for len(out) < len(videos) {
		for _, key := range order {
			if g := groups[key]; len(g) > 0 {
				out = append(out, g[0])
				groups[key] = g[1:]
			}
		}
	}
	return out
}

// generateClips walks the ranked candidate list and cuts clips via the
// collaborator. It enforces the per-artist cap, avoids two consecutive
// clips from the same artist while another eligible artist remains,
// and stops at the target count or when candidates are exhausted.
// Collaborator failures skip the candidate and accumulate as warnings.
func (p *Pipeline) generateClips(ctx context.Context, run *run, videos []VideoCandidate) ([]GeneratedClip, error) {
	cfg := run.cfg

	pending := append([]VideoCandidate(nil), videos...)
	if cfg.Mode == ModeVariety {
		pending = interleaveByArtist(pending)
	}

	clips := make([]GeneratedClip, 0, cfg.TargetClipCount)
	perArtist := make(map[string]int)
	lastArtist := ""

	for len(clips) < cfg.TargetClipCount && len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return clips, err
		}

		idx := p.nextCandidate(pending, perArtist, lastArtist, cfg.MaxClipsPerArtist)
		if idx < 0 {
			break
		}
		v := pending[idx]
		pending = append(pending[:idx], pending[idx+1:]...)

		start := p.clipStart(v.DurationSeconds, cfg.ClipDurationSeconds)
		if _, err := p.creator.CreateClip(ctx, v, start, cfg.ClipDurationSeconds); err != nil {
			run.warnf("clip creation failed for video %s: %v", v.ID, err)
			continue
		}

		clips = append(clips, GeneratedClip{
			VideoID:          v.ID,
			AttributedArtist: v.AttributedArtist,
			StartTimeSeconds: start,
			DurationSeconds:  cfg.ClipDurationSeconds,
			RelevanceScore:   v.RelevanceScore,
			Rank:             len(clips) + 1,
		})
		metrics.ClipsGenerated.Inc()

		key := artist.NormalizeName(v.AttributedArtist)
		perArtist[key]++
		lastArtist = key
		run.setClips(len(clips))
	}

	return clips, nil
}

// nextCandidate picks the first pending candidate that is under the
// per-artist cap, preferring one attributed to a different artist than
// the previous clip. A same-artist candidate is only returned when no
// differently-attributed eligible candidate remains. Returns -1 when
// nothing is eligible.
func (p *Pipeline) nextCandidate(pending []VideoCandidate, perArtist map[string]int, lastArtist string, maxPerArtist int) int {
	sameArtist := -1
	for i, v := range pending {
		key := artist.NormalizeName(v.AttributedArtist)
		if perArtist[key] >= maxPerArtist {
			continue
		}
		if key == lastArtist && lastArtist != "" {
			if sameArtist < 0 {
				sameArtist = i
			}
			continue
		}
		return i
	}
	return sameArtist
}

// clipStart picks a pseudo-random start inside the source video,
// leaving room for a full clip. Missing or too-short durations fall
// back to a safe default.
func (p *Pipeline) clipStart(sourceDuration, clipDuration int) int {
	if sourceDuration <= clipDuration {
		sourceDuration = defaultSourceDurationSeconds
	}
	window := sourceDuration - clipDuration
	if window <= 0 {
		return 0
	}
	return p.rng.Intn(window + 1)
}

// qualityScore rates a finished run: 40% mean clip relevance, 40%
// completion against the target, 20% distinct-artist ratio.
func qualityScore(clips []GeneratedClip, target int) float64 {
	if len(clips) == 0 || target <= 0 {
		return 0
	}

	meanRel := 0.0
	artists := make(map[string]struct{}, len(clips))
	for _, c := range clips {
		meanRel += c.RelevanceScore
		artists[artist.NormalizeName(c.AttributedArtist)] = struct{}{}
	}
	meanRel /= float64(len(clips))

	completion := float64(len(clips)) / float64(target)
	if completion > 1 {
		completion = 1
	}

	diversity := float64(len(artists)) / float64(len(clips))

	return 0.4*meanRel + 0.4*completion + 0.2*diversity
}

// warnf records a warning on the run and bumps the progress snapshot.
func (r *run) warnf(format string, args ...any) {
	r.p.addWarning(r, fmt.Sprintf(format, args...))
}
