package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadFilenameKeepsExtension(t *testing.T) {
	name := UploadFilename("Obra Final.JPG")
	assert.True(t, strings.HasPrefix(name, "files-"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, " ")
}

func TestUploadFilenameNoExtension(t *testing.T) {
	name := UploadFilename("photo")
	assert.True(t, strings.HasPrefix(name, "files-"))
	assert.NotContains(t, name, ".")
}

func TestUploadFilenameUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := UploadFilename("a.png")
		assert.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true
	}
}
