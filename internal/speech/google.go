// internal/speech/google.go

// Package speech synthesizes narration scripts into MP3 files using
// Google Cloud Text-to-Speech.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/user/studyscroll/internal/types"
)

// maxInputBytes is the synthesis API's input limit. Chunks stay under it
// with margin so SSML-escaped characters cannot push a request over.
const maxInputBytes = 4500

// Options selects the synthesized voice.
type Options struct {
	Language     string
	Voice        string
	SpeakingRate float64
}

// Google synthesizes speech through Cloud Text-to-Speech. The client is
// created once at startup so credential problems fail fast.
type Google struct {
	client *gctts.Client
	opts   Options
}

// NewGoogle creates the synthesizer. Credentials come from the ambient
// GOOGLE_APPLICATION_CREDENTIALS environment.
func NewGoogle(ctx context.Context, opts Options) (*Google, error) {
	client, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech client: %w", err)
	}
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	if opts.SpeakingRate == 0 {
		opts.SpeakingRate = 1.0
	}
	return &Google{client: client, opts: opts}, nil
}

// Close releases the underlying gRPC connection.
func (g *Google) Close() error {
	return g.client.Close()
}

// Synthesize renders the script as MP3 at outPath. Long scripts are split
// on paragraph boundaries and the MP3 payloads concatenated; MP3 frames
// are self-contained so concatenation plays continuously. The file is
// written via temp-and-rename so a failed synthesis leaves nothing behind.
func (g *Google) Synthesize(ctx context.Context, script, outPath string) error {
	started := time.Now()

	var audio []byte
	for i, chunk := range splitScript(script, maxInputBytes) {
		part, err := g.synthesizeChunk(ctx, chunk)
		if err != nil {
			return fmt.Errorf("synthesize chunk %d: %w", i, err)
		}
		audio = append(audio, part...)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, audio, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename audio: %w", err)
	}

	slog.Info("synthesis complete", "bytes", len(audio), "took", time.Since(started).String())
	return nil
}

func (g *Google) synthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: text},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: g.opts.Language,
			Name:         g.opts.Voice,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: ttspb.AudioEncoding_MP3,
			SpeakingRate:  g.opts.SpeakingRate,
		},
	}

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.GetAudioContent(), nil
}

// splitScript breaks a script into chunks no larger than limit bytes,
// preferring paragraph boundaries. A single paragraph over the limit is
// hard-split at the nearest space.
func splitScript(script string, limit int) []string {
	if len(script) <= limit {
		return []string{script}
	}

	var chunks []string
	var current string

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, para := range strings.Split(script, "\n\n") {
		if para == "" {
			continue
		}
		for len(para) > limit {
			cut := lastSpaceBefore(para, limit)
			flush()
			chunks = append(chunks, para[:cut])
			para = para[cut:]
		}
		switch {
		case current == "":
			current = para
		case len(current)+2+len(para) <= limit:
			current += "\n\n" + para
		default:
			flush()
			current = para
		}
	}
	flush()
	return chunks
}

// lastSpaceBefore returns a cut position at or before limit, landing after
// a space when one exists. A spaceless run is cut at the nearest rune
// boundary instead so multibyte text is never split mid-rune.
func lastSpaceBefore(s string, limit int) int {
	if i := strings.LastIndexAny(s[:limit], " \n"); i > 0 {
		return i + 1
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		// Invalid UTF-8; cut at the limit so the split still advances.
		return limit
	}
	return cut
}

// Compile-time interface compliance check.
var _ types.Synthesizer = (*Google)(nil)
