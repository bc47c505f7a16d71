package pbimages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeIsPrivate(t *testing.T) {
	assert.False(t, ScopePublic.IsPrivate())
	assert.True(t, ScopePrivate.IsPrivate())
}

func TestImageDataURI(t *testing.T) {
	img := &Image{
		ContentType: "image/jpeg",
		ImageData:   "aGVsbG8=",
	}
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", img.DataURI())
}
