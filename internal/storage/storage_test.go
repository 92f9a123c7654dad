package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImageExtension(t *testing.T) {
	ext, ok := ImageExtension("image/png")
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	ext, ok = ImageExtension("IMAGE/JPEG; charset=binary")
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = ImageExtension("application/pdf")
	assert.False(t, ok)
}

func TestLogoObjectName(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "companies/c-1/logo-1700000000.png", LogoObjectName("c-1", ".png", at))
}
