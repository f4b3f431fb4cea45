package entities

// TranscriptItemType discriminates transcript records in the provider's
// line-delimited artifact
type TranscriptItemType string

const (
	TranscriptItemWord     TranscriptItemType = "word"
	TranscriptItemSentence TranscriptItemType = "sentence"
	TranscriptItemNoise    TranscriptItemType = "noise"
	TranscriptItemUnknown  TranscriptItemType = "unknown"
)

// TranscriptItem is one timestamped utterance record parsed from the
// transcript artifact. Items are derived at read time and never persisted
// as rows.
type TranscriptItem struct {
	SpeakerID string             `json:"speaker_id"`
	Text      string             `json:"text"`
	StartTS   float64            `json:"start_ts"`
	StopTS    float64            `json:"stop_ts"`
	Type      TranscriptItemType `json:"type"`
}

// SpeakerKind tags the two halves of the unified speaker union
type SpeakerKind string

const (
	SpeakerKindHuman SpeakerKind = "human"
	SpeakerKindAgent SpeakerKind = "agent"
)

// Speaker is a unified identity attributable to a transcript or chat entry.
// Humans and agents are folded into this one shape behind a single
// lookup-by-id capability.
type Speaker struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Image string      `json:"image"`
	Kind  SpeakerKind `json:"kind"`
}

// TranscriptEntry is a transcript item enriched with its resolved speaker
type TranscriptEntry struct {
	TranscriptItem
	Speaker Speaker `json:"user"`
}
