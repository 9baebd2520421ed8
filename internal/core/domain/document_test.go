package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload_AcceptsPDFWithinLimit(t *testing.T) {
	err := ValidateUpload("handbook.pdf", 5<<20)
	assert.NoError(t, err)
}

func TestValidateUpload_RejectsOversizedFile(t *testing.T) {
	err := ValidateUpload("dump.pdf", 12<<20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "limit is 10 MB")
}

func TestValidateUpload_RejectsUnsupportedExtension(t *testing.T) {
	err := ValidateUpload("video.mp4", 1024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateUpload_RejectsEmptyFile(t *testing.T) {
	err := ValidateUpload("empty.txt", 0)
	assert.Error(t, err)
}

func TestValidateUpload_ExtensionCaseInsensitive(t *testing.T) {
	assert.NoError(t, ValidateUpload("REPORT.PDF", 100))
	assert.NoError(t, ValidateUpload("notes.Md", 100))
}

func TestValidateUpload_BoundaryExactlyAtLimit(t *testing.T) {
	assert.NoError(t, ValidateUpload("big.pdf", MaxUploadSize))
	assert.Error(t, ValidateUpload("big.pdf", MaxUploadSize+1))
}

func TestAllowedExtensions_NotEmpty(t *testing.T) {
	exts := AllowedExtensions()
	assert.NotEmpty(t, exts)
	assert.Contains(t, exts, ".pdf")
}
