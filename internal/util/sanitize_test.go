package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	assert.Equal(t, "", SanitizeForLog(""))
	assert.Equal(t, "alice", SanitizeForLog("alice"))
	assert.Equal(t, "alice forged: status=approved", SanitizeForLog("alice\r\nforged: status=approved"))
	assert.Equal(t, "cert .pdf", SanitizeForLog("cert\x00\x1b.pdf"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abcde", Truncate("abcdefgh", 5))
}
