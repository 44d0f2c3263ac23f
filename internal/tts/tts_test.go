package tts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/newsportal/internal/apperr"
)

func TestNumberToWords(t *testing.T) {
	cases := map[int]string{
		0:    "zero",
		7:    "seven",
		10:   "ten",
		13:   "thirteen",
		20:   "twenty",
		42:   "forty-two",
		90:   "ninety",
		100:  "one hundred",
		105:  "one hundred and five",
		999:  "nine hundred and ninety-nine",
		1000: "one thousand",
		2026: "two thousand twenty-six",
	}
	for n, want := range cases {
		assert.Equal(t, want, NumberToWords(n), "n=%d", n)
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("Dr. Smith read 3 articles in 45 minutes")
	assert.Equal(t, "Doctor Smith read three articles in forty-five minutes", got)
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(rdb, time.Hour), mr
}

func TestSynthesize_BrowserSSML(t *testing.T) {
	s, _ := newTestService(t)

	res, err := s.Synthesize(context.Background(), "hello 2 world", VoiceSettings{
		Engine: EngineBrowser, LanguageCode: "en-GB", Rate: 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, EngineBrowser, res.Type)
	assert.Contains(t, res.SSML, `xml:lang="en-GB"`)
	assert.Contains(t, res.SSML, `rate="1.5"`)
	assert.Contains(t, res.SSML, "hello two world")
}

func TestSynthesize_Validation(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Synthesize(context.Background(), "", VoiceSettings{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = s.Synthesize(context.Background(), "hi", VoiceSettings{Engine: "polly"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSynthesize_EspeakStub(t *testing.T) {
	s, _ := newTestService(t)

	res, err := s.Synthesize(context.Background(), "hi", VoiceSettings{Engine: EngineEspeak})
	require.NoError(t, err)
	assert.Equal(t, EngineEspeak, res.Type)
	assert.Empty(t, res.Audio)
}

func TestSynthesize_CacheHit(t *testing.T) {
	s, mr := newTestService(t)
	ctx := context.Background()

	first, err := s.Synthesize(ctx, "cache me 1 time", VoiceSettings{Engine: EngineBrowser})
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)

	// doctor the cached value to prove the second call reads the cache
	key := mr.Keys()[0]
	require.NoError(t, mr.Set(key, `{"type":"browser","ssml":"<speak>from cache</speak>"}`))

	second, err := s.Synthesize(ctx, "cache me 1 time", VoiceSettings{Engine: EngineBrowser})
	require.NoError(t, err)
	assert.Equal(t, "<speak>from cache</speak>", second.SSML)
	assert.NotEqual(t, first.SSML, second.SSML)

	// different settings get a different key
	_, err = s.Synthesize(ctx, "cache me 1 time", VoiceSettings{Engine: EngineBrowser, Rate: 2})
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 2)
}

func TestVoices(t *testing.T) {
	s, _ := newTestService(t)
	cat := s.Voices()
	assert.Empty(t, cat.Browser)
	assert.Len(t, cat.Espeak, 4)
}
