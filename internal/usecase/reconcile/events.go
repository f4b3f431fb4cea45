package reconcile

import (
	"encoding/json"
	"strings"

	apperrors "github.com/tamirazrab/parley/errors"
)

// Provider event types the reconciler understands. Anything else is
// acknowledged and ignored.
const (
	EventSessionStarted     = "call.session_started"
	EventParticipantLeft    = "call.session_participant_left"
	EventSessionEnded       = "call.session_ended"
	EventTranscriptionReady = "call.transcription_ready"
	EventRecordingReady     = "call.recording_ready"
	EventMessageNew         = "message.new"
)

// envelope carries the discriminator field shared by every provider event
type envelope struct {
	Type string `json:"type"`
}

// callPayload covers events that reference the call object directly. The
// meeting id travels in the call's custom data, placed there at creation.
type callPayload struct {
	Call struct {
		Custom struct {
			MeetingID string `json:"meetingId"`
		} `json:"custom"`
	} `json:"call"`
}

// cidPayload covers events that reference the call only by its composite
// cid of the form "type:id"
type cidPayload struct {
	CallCID string `json:"call_cid"`
}

// transcriptionPayload is the transcription-ready event body
type transcriptionPayload struct {
	CallCID           string `json:"call_cid"`
	CallTranscription struct {
		URL string `json:"url"`
	} `json:"call_transcription"`
}

// recordingPayload is the recording-ready event body
type recordingPayload struct {
	CallCID       string `json:"call_cid"`
	CallRecording struct {
		URL string `json:"url"`
	} `json:"call_recording"`
}

// messagePayload is the chat message.new event body. ChannelID equals the
// meeting id because channels are provisioned under the meeting's id.
type messagePayload struct {
	ChannelID string `json:"channel_id"`
	User      struct {
		ID string `json:"id"`
	} `json:"user"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// EventType extracts the discriminator from a raw event body
func EventType(body []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", apperrors.ErrMalformedEvent(err)
	}
	return env.Type, nil
}

// meetingIDFromCID splits a composite "type:id" call cid and returns the id
// part. Returns empty when the cid has no id segment.
func meetingIDFromCID(cid string) string {
	_, id, found := strings.Cut(cid, ":")
	if !found {
		return ""
	}
	return id
}

func decode(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.ErrMalformedEvent(err)
	}
	return nil
}
