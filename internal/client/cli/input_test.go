package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(reader, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(reader, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Contains(t, out.String(), "Enter password")
}

func TestGetRole_RepromptsUntilValid(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("admin\nRECRUITER\n"))

	role, err := GetRole(reader, &out)
	require.NoError(t, err)
	assert.Equal(t, "recruiter", role)
	assert.Contains(t, out.String(), "candidate' or 'recruiter")
}
