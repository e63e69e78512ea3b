// Package formats implements format selection under size ceilings.
package formats

import (
	"sort"
	"strings"

	"github.com/clipflow/clipflow/internal/domain/video/entities"
)

// PreferredVideoCodec is favored because Telegram clients play it natively.
const PreferredVideoCodec = "avc1"

// Selector picks the best video/audio pair under the configured size ceilings.
type Selector struct {
	maxVideoSize   int64
	maxAudioSize   int64
	preferredLangs []string
}

// NewSelector creates a Selector with per-track ceilings in bytes and the
// preferred audio language order.
func NewSelector(maxVideoSize, maxAudioSize int64, preferredLangs []string) *Selector {
	return &Selector{
		maxVideoSize:   maxVideoSize,
		maxAudioSize:   maxAudioSize,
		preferredLangs: preferredLangs,
	}
}

// SelectVideo picks a video candidate. Candidates with the preferred codec
// within the ceiling win, then any codec within the ceiling, then the smallest
// candidate overall. Returns false only when no candidate has a known size.
func (s *Selector) SelectVideo(candidates []entities.FormatCandidate) (entities.FormatCandidate, bool) {
	return pick(sized(candidates), s.maxVideoSize, PreferredVideoCodec)
}

// SelectAudio picks an audio candidate. Candidates are first ordered by the
// preferred language list (original order preserved within a language), then
// the same ceiling passes as for video apply, without a codec preference.
func (s *Selector) SelectAudio(candidates []entities.FormatCandidate) (entities.FormatCandidate, bool) {
	ordered := sized(candidates)
	if len(s.preferredLangs) > 0 {
		sort.SliceStable(ordered, func(i, j int) bool {
			return s.langPriority(ordered[i].Language) < s.langPriority(ordered[j].Language)
		})
	}
	return pick(ordered, s.maxAudioSize, "")
}

// Select picks the video/audio pair for a probe result.
func (s *Selector) Select(meta *entities.VideoMetadata) (entities.Selection, bool, bool) {
	video, videoOK := s.SelectVideo(meta.Video)
	audio, audioOK := s.SelectAudio(meta.Audio)
	return entities.Selection{Video: video, Audio: audio}, videoOK, audioOK
}

// langPriority ranks a language against the preferred list; unknown languages
// sort last.
func (s *Selector) langPriority(lang string) int {
	for i, preferred := range s.preferredLangs {
		if lang == preferred || (lang != "" && strings.HasPrefix(preferred, lang)) {
			return i
		}
	}
	return len(s.preferredLangs)
}

// sized filters out candidates without a known filesize, preserving order.
func sized(candidates []entities.FormatCandidate) []entities.FormatCandidate {
	kept := make([]entities.FormatCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Filesize > 0 {
			kept = append(kept, c)
		}
	}
	return kept
}

// pick applies the three selection passes. The input order is the extractor's
// order; the first match wins in the first two passes, first-seen breaks ties
// in the smallest-size fallback.
func pick(candidates []entities.FormatCandidate, ceiling int64, preferredCodec string) (entities.FormatCandidate, bool) {
	if len(candidates) == 0 {
		return entities.FormatCandidate{}, false
	}

	if preferredCodec != "" {
		for _, c := range candidates {
			if c.Filesize <= ceiling && strings.Contains(c.Codec, preferredCodec) {
				return c, true
			}
		}
	}

	for _, c := range candidates {
		if c.Filesize <= ceiling {
			return c, true
		}
	}

	smallest := candidates[0]
	for _, c := range candidates[1:] {
		if c.Filesize < smallest.Filesize {
			smallest = c
		}
	}
	return smallest, true
}
