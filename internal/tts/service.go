// Package tts serves the text-to-speech demo surface: a static voice
// catalog, an SSML passthrough for browser-side synthesis, and a stub
// server-side engine. Responses are cached in redis with a flat TTL.
package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/newsportal/internal/apperr"
)

const (
	EngineBrowser = "browser"
	EngineEspeak  = "espeak"
)

type Voice struct {
	Name         string `json:"name"`
	LanguageCode string `json:"languageCode"`
	Gender       string `json:"gender"`
}

// Catalog mirrors the demo's fixed voice set; browser voices are
// enumerated client-side by the Web Speech API, so that list stays empty.
type Catalog struct {
	Browser []Voice `json:"browser"`
	Espeak  []Voice `json:"espeak"`
}

type VoiceSettings struct {
	Engine       string  `json:"engine"`
	LanguageCode string  `json:"languageCode"`
	Rate         float64 `json:"rate"`
	Pitch        float64 `json:"pitch"`
	Volume       float64 `json:"volume"`
}

// Result is either an SSML document (browser engine) or audio bytes
// (espeak engine, currently a stub that yields no audio).
type Result struct {
	Type  string `json:"type"`
	SSML  string `json:"ssml,omitempty"`
	Audio []byte `json:"audio,omitempty"`
}

type Service struct {
	rdb      *redis.Client
	cacheTTL time.Duration
	catalog  Catalog
}

func NewService(rdb *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Service{
		rdb:      rdb,
		cacheTTL: cacheTTL,
		catalog: Catalog{
			Browser: []Voice{},
			Espeak: []Voice{
				{Name: "en-US-male", LanguageCode: "en-US", Gender: "MALE"},
				{Name: "en-US-female", LanguageCode: "en-US", Gender: "FEMALE"},
				{Name: "es-ES-male", LanguageCode: "es-ES", Gender: "MALE"},
				{Name: "fr-FR-female", LanguageCode: "fr-FR", Gender: "FEMALE"},
			},
		},
	}
}

func (s *Service) Voices() Catalog { return s.catalog }

func cacheKey(text string, settings VoiceSettings) string {
	payload, _ := json.Marshal(settings)
	sum := sha256.Sum256(append([]byte(text+"|"), payload...))
	return "tts:" + hex.EncodeToString(sum[:])
}

// Synthesize validates the request, applies preprocessing and dispatches
// to the selected engine. Cache hits skip engine work entirely.
func (s *Service) Synthesize(ctx context.Context, text string, settings VoiceSettings) (*Result, error) {
	if text == "" {
		return nil, apperr.New(apperr.KindValidation, "Text is required")
	}
	engine := settings.Engine
	if engine == "" {
		engine = EngineBrowser
	}

	key := cacheKey(text, settings)
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached Result
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	processed := Preprocess(text)
	var res *Result
	switch engine {
	case EngineBrowser:
		res = &Result{Type: EngineBrowser, SSML: buildSSML(processed, settings)}
	case EngineEspeak:
		audio, err := s.generateWithEspeak(ctx, processed, settings)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "Failed to generate speech", err)
		}
		res = &Result{Type: EngineEspeak, Audio: audio}
	default:
		return nil, apperr.New(apperr.KindValidation, "Invalid TTS engine specified")
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(res); err == nil {
			_ = s.rdb.Set(ctx, key, payload, s.cacheTTL).Err()
		}
	}
	return res, nil
}

// generateWithEspeak is the server-side synthesis path. Not hooked up to a
// real engine; returns empty audio like the demo it replaces.
func (s *Service) generateWithEspeak(_ context.Context, _ string, _ VoiceSettings) ([]byte, error) {
	return []byte{}, nil
}

func buildSSML(text string, settings VoiceSettings) string {
	lang := settings.LanguageCode
	if lang == "" {
		lang = "en-US"
	}
	rate, pitch, volume := settings.Rate, settings.Pitch, settings.Volume
	if rate == 0 {
		rate = 1
	}
	if pitch == 0 {
		pitch = 1
	}
	if volume == 0 {
		volume = 1
	}
	return fmt.Sprintf(`<speak version="1.1" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang=%q><prosody rate="%g" pitch="%g" volume="%g">%s</prosody></speak>`,
		lang, rate, pitch, volume, text)
}
