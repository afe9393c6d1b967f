package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a****@*******.com", MaskEmail("alice@example.com"))
	assert.Equal(t, "b@****.org", MaskEmail("b@mail.org"))
	assert.Equal(t, "[invalid-email]", MaskEmail("not-an-email"))
	assert.Equal(t, "[invalid-email]", MaskEmail("@example.com"))
}

func TestRedacted(t *testing.T) {
	assert.Equal(t, "[REDACTED]", Redacted("k", "v", "production").Value.String())
	assert.Equal(t, "v", Redacted("k", "v", "development").Value.String())
}

func TestSafeQuery(t *testing.T) {
	assert.Equal(t, "", SafeQuery(""))
	assert.Equal(t, "page=1&searchTerm=lamp", SafeQuery("searchTerm=lamp&page=1"))
	assert.Equal(t, "password=%5BREDACTED%5D&u=bob", SafeQuery("u=bob&password=hunter2"))
	assert.Equal(t, "refresh_token=%5BREDACTED%5D", SafeQuery("refresh_token=abc"))
	assert.Equal(t, "[REDACTED]", SafeQuery("%zz"))
}

func TestAuditLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	al.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	al.Log(context.Background(), AuditEvent{
		Type:     EventRoleGrant,
		Actor:    "admin",
		Subject:  "bob",
		Success:  true,
		Metadata: map[string]string{"role": "ROLE_ADMIN"},
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "audit", line["msg"])
	assert.Equal(t, "role_grant", line["event_type"])
	assert.Equal(t, "admin", line["actor"])
	assert.Equal(t, "bob", line["subject"])
	assert.Equal(t, "ROLE_ADMIN", line["role"])
	assert.Equal(t, "2024-03-01T12:00:00Z", line["timestamp"])
	assert.NotContains(t, line, "ip_address")
}

func TestAuditLogger_FailureIsWarn(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.Log(context.Background(), AuditEvent{Type: EventLogin, Subject: "bob", FailureReason: "not approved"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "not approved", line["failure_reason"])
}
