package ingest

import (
	"context"
	"time"
)

// StubSource returns fixed metadata and a two-segment transcript. It stands in
// for a YouTube Data API integration.
type StubSource struct {
	Now func() time.Time
}

func (s StubSource) FetchMetadata(_ context.Context, url string) (*Metadata, error) {
	id, err := VideoID(url)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	return &Metadata{
		URL:         url,
		VideoID:     id,
		Title:       "Stub YouTube Title",
		Channel:     "Stub Channel",
		PublishedAt: now().UTC(),
	}, nil
}

func (s StubSource) FetchTranscript(_ context.Context, url string) (*Transcript, error) {
	if _, err := VideoID(url); err != nil {
		return nil, err
	}

	return &Transcript{
		Text: "This is a stub transcript. Replace with real transcript extraction. " +
			"Trendr will segment this into chapters and key moments.",
		Segments: []Segment{
			{Start: 0, End: 15, Text: "Stub intro segment."},
			{Start: 15, End: 60, Text: "Stub main point segment."},
		},
	}, nil
}
