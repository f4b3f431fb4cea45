package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"call.session_started"}`)
	sig := SignBody("secret", body)

	assert.True(t, VerifySignature("secret", body, sig))
}

func TestVerifySignature_RejectsTamperedBody(t *testing.T) {
	body := []byte(`{"type":"call.session_started"}`)
	sig := SignBody("secret", body)

	assert.False(t, VerifySignature("secret", []byte(`{"type":"call.session_ended"}`), sig))
}

func TestVerifySignature_RejectsWrongSecret(t *testing.T) {
	body := []byte(`{}`)
	sig := SignBody("secret", body)

	assert.False(t, VerifySignature("other", body, sig))
}

func TestVerifySignature_RejectsEmptyInputs(t *testing.T) {
	assert.False(t, VerifySignature("", []byte(`{}`), "abc"))
	assert.False(t, VerifySignature("secret", []byte(`{}`), ""))
}
