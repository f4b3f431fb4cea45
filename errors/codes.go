package errors

// ErrorCode identifies a class of application error independent of HTTP status
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_PERMISSION_DENIED ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1004

	// Webhook / events
	ErrorCode_WEBHOOK_MISSING_HEADERS   ErrorCode = 2000
	ErrorCode_WEBHOOK_INVALID_SIGNATURE ErrorCode = 2001
	ErrorCode_WEBHOOK_MALFORMED_EVENT   ErrorCode = 2002
	ErrorCode_WEBHOOK_MISSING_MEETING   ErrorCode = 2003

	// Meetings / agents
	ErrorCode_MEETING_NOT_FOUND ErrorCode = 3000
	ErrorCode_AGENT_NOT_FOUND   ErrorCode = 3001
	ErrorCode_SUMMARY_NOT_READY ErrorCode = 3002

	// Conversation / model
	ErrorCode_INVALID_MESSAGE  ErrorCode = 4000
	ErrorCode_EMPTY_COMPLETION ErrorCode = 4001
	ErrorCode_MODEL_FAILED     ErrorCode = 4002

	// Integrations
	ErrorCode_PROVIDER_FAILED ErrorCode = 5000
	ErrorCode_DISPATCH_FAILED ErrorCode = 5001
	ErrorCode_STORAGE_FAILED  ErrorCode = 5002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                   "OK",
	ErrorCode_INTERNAL:                  "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:          "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                 "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:         "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:           "UNAUTHENTICATED",
	ErrorCode_WEBHOOK_MISSING_HEADERS:   "WEBHOOK_MISSING_HEADERS",
	ErrorCode_WEBHOOK_INVALID_SIGNATURE: "WEBHOOK_INVALID_SIGNATURE",
	ErrorCode_WEBHOOK_MALFORMED_EVENT:   "WEBHOOK_MALFORMED_EVENT",
	ErrorCode_WEBHOOK_MISSING_MEETING:   "WEBHOOK_MISSING_MEETING",
	ErrorCode_MEETING_NOT_FOUND:         "MEETING_NOT_FOUND",
	ErrorCode_AGENT_NOT_FOUND:           "AGENT_NOT_FOUND",
	ErrorCode_SUMMARY_NOT_READY:         "SUMMARY_NOT_READY",
	ErrorCode_INVALID_MESSAGE:           "INVALID_MESSAGE",
	ErrorCode_EMPTY_COMPLETION:          "EMPTY_COMPLETION",
	ErrorCode_MODEL_FAILED:              "MODEL_FAILED",
	ErrorCode_PROVIDER_FAILED:           "PROVIDER_FAILED",
	ErrorCode_DISPATCH_FAILED:           "DISPATCH_FAILED",
	ErrorCode_STORAGE_FAILED:            "STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
