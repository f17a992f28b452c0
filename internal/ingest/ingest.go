// Package ingest pulls metadata and transcripts from a source video and stores
// them as project artifacts.
package ingest

import (
	"context"
	"encoding/json"
	"time"
)

// Metadata describes a source video.
type Metadata struct {
	URL         string    `json:"url"`
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	PublishedAt time.Time `json:"published_at"`
	DurationSec int       `json:"duration_sec"`
}

// Segment is a timed slice of a transcript, in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the full text of a source plus its timed segments.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Source fetches metadata and transcripts for a video URL.
type Source interface {
	FetchMetadata(ctx context.Context, url string) (*Metadata, error)
	FetchTranscript(ctx context.Context, url string) (*Transcript, error)
}

// SegmentsFromMeta decodes the "segments" entry of a transcript artifact's meta.
// Malformed entries yield no segments.
func SegmentsFromMeta(meta map[string]any) []Segment {
	raw, ok := meta["segments"]
	if !ok || raw == nil {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil
	}
	return segments
}

func toMeta(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
