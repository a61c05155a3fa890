package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("test_secret")

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "session-1", time.Hour)
	assert.NoError(t, err)

	sid, err := ParseSessionToken(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, "session-1", sid)
}

func TestParseSessionTokenRejects(t *testing.T) {
	expired, _ := GenerateSessionToken(testSecret, "session-1", -time.Hour)
	otherKey, _ := GenerateSessionToken([]byte("other"), "session-1", time.Hour)
	noSID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)

	tests := map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"no sid":    noSID,
		"garbage":   "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSessionToken(testSecret, token)
			assert.Error(t, err)
		})
	}
}
