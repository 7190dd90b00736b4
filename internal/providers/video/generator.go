// Package video produces short promotional clips through a long-running
// generation job. Video is a best-effort enhancement: every failure path
// degrades to a fixed, always-playable sample clip instead of surfacing an
// error, and the real failure is kept on the Outcome for telemetry.
package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"adgen/internal/domain"
	"adgen/internal/infra"
	"adgen/internal/media"
	"adgen/internal/providers/gemini"
)

// FallbackPrompt is reported on a fallback artifact when the caller supplied
// no prompt of its own. It is never empty.
const FallbackPrompt = "Cinematic product showcase with smooth camera movement"

// JobClient is the slice of the Gemini client the generator needs.
type JobClient interface {
	StartVideoJob(ctx context.Context, req gemini.VideoJobRequest) (string, error)
	PollVideoJob(ctx context.Context, operationName string) (*gemini.VideoOperation, error)
	Download(ctx context.Context, uri string) ([]byte, string, error)
}

// Request describes one video generation attempt.
type Request struct {
	Title          string
	Prompt         string
	Image          *media.EncodedImage
	SourceImageURL string
	AspectRatio    string
}

// Result carries the artifact plus the honest outcome of the attempt.
type Result struct {
	Artifact domain.VideoArtifact
	Data     []byte
	MIME     string
	Outcome  domain.Outcome
}

// Options configures the generator.
type Options struct {
	Client       JobClient
	PollInterval time.Duration
	PollAttempts int
	FallbackURL  string
	Logger       *infra.Logger
}

// Generator polls a long-running job until done or the attempt ceiling is
// hit, then downloads the result.
type Generator struct {
	client       JobClient
	pollInterval time.Duration
	pollAttempts int
	fallbackURL  string
	logger       infra.Logger
}

func NewGenerator(opts Options) (*Generator, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("video: job client is required")
	}
	if opts.FallbackURL == "" {
		return nil, fmt.Errorf("video: fallback url is required")
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	attempts := opts.PollAttempts
	if attempts <= 0 {
		attempts = 12
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Generator{
		client:       opts.Client,
		pollInterval: interval,
		pollAttempts: attempts,
		fallbackURL:  opts.FallbackURL,
		logger:       logger,
	}, nil
}

// Generate runs the job to completion or degradation. The returned Result is
// always usable: on any failure the artifact points at the fallback clip.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	artifact := g.baseArtifact(req)

	operationName, err := g.start(ctx, req)
	if err != nil {
		return g.fallback(artifact, fmt.Sprintf("submit failed: %v", err))
	}

	uri, err := g.awaitCompletion(ctx, operationName)
	if err != nil {
		return g.fallback(artifact, err.Error())
	}

	data, mime, err := g.client.Download(ctx, uri)
	if err != nil {
		return g.fallback(artifact, fmt.Sprintf("download failed: %v", err))
	}
	if len(data) == 0 {
		return g.fallback(artifact, "download returned no bytes")
	}

	artifact.Status = domain.VideoStatusCompleted
	if mime == "" {
		mime = "video/mp4"
	}
	return Result{Artifact: artifact, Data: data, MIME: mime, Outcome: domain.OK()}
}

func (g *Generator) start(ctx context.Context, req Request) (string, error) {
	jobReq := gemini.VideoJobRequest{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
	}
	if jobReq.Prompt == "" {
		jobReq.Prompt = FallbackPrompt
	}
	if req.Image != nil {
		jobReq.Image = &gemini.InlineData{MIMEType: req.Image.MIME, Data: req.Image.Base64}
	}
	return g.client.StartVideoJob(ctx, jobReq)
}

// awaitCompletion polls on a fixed interval for a bounded number of
// attempts. Past the ceiling the job counts as timed out even if it would
// eventually finish.
func (g *Generator) awaitCompletion(ctx context.Context, operationName string) (string, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= g.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		op, err := g.client.PollVideoJob(ctx, operationName)
		if err != nil {
			return "", fmt.Errorf("poll failed: %w", err)
		}
		if !op.Done {
			continue
		}
		if op.VideoURI == "" {
			return "", fmt.Errorf("operation finished without a result uri")
		}
		return op.VideoURI, nil
	}
	return "", fmt.Errorf("%w after %d attempts", domain.ErrVideoTimeout, g.pollAttempts)
}

func (g *Generator) baseArtifact(req Request) domain.VideoArtifact {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = FallbackPrompt
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Promotional video"
	}
	generationType := domain.GenerationTypeTextToVideo
	if req.Image != nil {
		generationType = domain.GenerationTypeImageToVideo
	}
	return domain.VideoArtifact{
		Title:          title,
		Prompt:         prompt,
		GenerationType: generationType,
		SourceImageURL: req.SourceImageURL,
		Status:         domain.VideoStatusPending,
	}
}

func (g *Generator) fallback(artifact domain.VideoArtifact, reason string) Result {
	g.logger.Warn().Str("reason", reason).Msg("video: degraded to fallback clip")
	artifact.VideoURL = g.fallbackURL
	artifact.Status = domain.VideoStatusCompleted
	return Result{Artifact: artifact, Outcome: domain.Degraded(reason)}
}
