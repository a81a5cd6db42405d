package fortune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		for _, k := range Kinds() {
			parsed, err := ParseKind(string(k))
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		}

		for _, s := range []string{"", "weekly", "DAILY", "Daily"} {
			_, err := ParseKind(s)
			assert.Error(t, err, s)
		}
	})

	t.Run("reuse policy", func(t *testing.T) {
		assert.True(t, KindDaily.Reusable())
		assert.True(t, KindLifelong.Reusable())
		assert.False(t, KindFace.Reusable())
		assert.False(t, KindDream.Reusable())
	})
}

func TestDreamKeyword(t *testing.T) {
	assert.True(t, KeywordAnimal.IsValid())
	assert.False(t, DreamKeyword("VOLCANO").IsValid())
	assert.Equal(t, "동물", KeywordAnimal.Label())
}

func TestImageType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ImageJPEG.MimeType())
	assert.Equal(t, "image/png", ImagePNG.MimeType())
	assert.False(t, ImageType("GIF").IsValid())
}
