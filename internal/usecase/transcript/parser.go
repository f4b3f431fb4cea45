package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"

	"github.com/tamirazrab/parley/internal/domain/entities"
)

// scanBufferSize bounds a single transcript line; provider sentences stay
// well under this
const scanBufferSize = 1 << 20

// Parse decodes a line-delimited transcript artifact. Malformed lines and
// blank lines are dropped rather than failing the whole artifact: a partly
// readable transcript still produces a useful summary. Items missing a
// type are tagged unknown.
func Parse(data []byte) []entities.TranscriptItem {
	items := make([]entities.TranscriptItem, 0, 64)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufferSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var item entities.TranscriptItem
		if err := json.Unmarshal(line, &item); err != nil {
			continue
		}
		if item.Type == "" {
			item.Type = entities.TranscriptItemUnknown
		}
		items = append(items, item)
	}

	return items
}

// SpeakerIDs returns the distinct speaker ids of the items in first-seen order
func SpeakerIDs(items []entities.TranscriptItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.SpeakerID == "" {
			continue
		}
		if _, ok := seen[item.SpeakerID]; ok {
			continue
		}
		seen[item.SpeakerID] = struct{}{}
		ids = append(ids, item.SpeakerID)
	}
	return ids
}
