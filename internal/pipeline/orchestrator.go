// Package pipeline sequences one generation session: encode the upload,
// analyze it, derive variation prompts, fan out image generation, and
// optionally produce a promo video. Image variations run as independent
// tasks joined at the end; the session succeeds when at least one of them
// does.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adgen/internal/domain"
	"adgen/internal/infra"
	"adgen/internal/media"
	"adgen/internal/providers/analysis"
	imageprovider "adgen/internal/providers/image"
	"adgen/internal/providers/promptgen"
	videoprovider "adgen/internal/providers/video"
	"adgen/internal/storage"
)

// VideoGenerator is the slice of the video provider the orchestrator needs.
type VideoGenerator interface {
	Generate(ctx context.Context, req videoprovider.Request) videoprovider.Result
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Analyzer       analysis.Analyzer
	Prompts        promptgen.Generator
	Images         imageprovider.VariationGenerator
	Video          VideoGenerator
	Variations     domain.VariationRepository
	Videos         domain.VideoRepository
	Store          storage.ObjectStore
	Logger         *infra.Logger
	VariationCount int
	// VideoFallbackURL stands in when generated bytes cannot be stored.
	VideoFallbackURL string
}

// Orchestrator runs generation sessions.
type Orchestrator struct {
	analyzer         analysis.Analyzer
	prompts          promptgen.Generator
	images           imageprovider.VariationGenerator
	video            VideoGenerator
	variations       domain.VariationRepository
	videos           domain.VideoRepository
	store            storage.ObjectStore
	logger           infra.Logger
	variationCount   int
	videoFallbackURL string
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Analyzer == nil || opts.Prompts == nil || opts.Images == nil {
		return nil, fmt.Errorf("pipeline: analyzer, prompt and image providers are required")
	}
	count := opts.VariationCount
	if count <= 0 {
		count = 3
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Orchestrator{
		analyzer:         opts.Analyzer,
		prompts:          opts.Prompts,
		images:           opts.Images,
		video:            opts.Video,
		variations:       opts.Variations,
		videos:           opts.Videos,
		store:            opts.Store,
		logger:           logger,
		variationCount:   count,
		videoFallbackURL: opts.VideoFallbackURL,
	}, nil
}

// Request describes one session run.
type Request struct {
	UserID       string
	SessionID    string
	ImageData    []byte
	IncludeVideo bool
	VideoPrompt  string
}

// RunSession executes the full flow. Validation, configuration and analysis
// errors block progression; per-variation failures are isolated; video and
// persistence failures never revoke artifacts already produced. An error is
// returned only when the session yields zero usable variations.
func (o *Orchestrator) RunSession(ctx context.Context, req Request) (*domain.GenerationSession, error) {
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	session := &domain.GenerationSession{ID: req.SessionID, UserID: req.UserID}

	encoded, err := media.Encode(req.ImageData)
	if err != nil {
		return nil, err
	}

	originalURL := o.storeOriginal(ctx, req, encoded)

	analysisResult, err := o.analyzer.Analyze(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	session.Analysis = *analysisResult

	prompts, err := o.prompts.Variations(ctx, *analysisResult, o.variationCount)
	if err != nil {
		return nil, fmt.Errorf("prompt generation: %w", err)
	}

	if adCopy, err := o.prompts.AdCopy(ctx, *analysisResult); err != nil {
		o.logger.Warn().Err(err).Str("session_id", session.ID).Msg("pipeline: ad copy generation failed")
	} else {
		session.Copy = adCopy
	}

	session.Variations = o.fanOut(ctx, req, encoded, originalURL, prompts)

	if req.IncludeVideo {
		o.runVideo(ctx, req, encoded, originalURL, *analysisResult, session)
	}

	if !session.Succeeded() {
		return session, fmt.Errorf("session %s: %w: all variations failed", session.ID, domain.ErrProviderFailure)
	}
	return session, nil
}

// fanOut generates each prompt independently. A failure in slot i never
// prevents slots != i from completing.
func (o *Orchestrator) fanOut(ctx context.Context, req Request, encoded *media.EncodedImage, originalURL string, prompts []domain.VariationPrompt) []domain.VariationResult {
	results := make([]domain.VariationResult, len(prompts))
	var wg sync.WaitGroup
	for i, prompt := range prompts {
		wg.Add(1)
		go func(i int, prompt domain.VariationPrompt) {
			defer wg.Done()
			results[i] = o.generateOne(ctx, req, encoded, originalURL, prompt, i)
		}(i, prompt)
	}
	wg.Wait()
	return results
}

func (o *Orchestrator) generateOne(ctx context.Context, req Request, encoded *media.EncodedImage, originalURL string, prompt domain.VariationPrompt, index int) domain.VariationResult {
	generated, err := o.images.Generate(ctx, prompt, encoded)
	if err != nil {
		o.logger.Error().Err(err).
			Str("session_id", req.SessionID).
			Int("slot", index).
			Msg("pipeline: variation generation failed")
		return domain.VariationResult{Index: index, Outcome: domain.Failed(err.Error())}
	}

	variation := &domain.ImageVariation{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		SessionID:        req.SessionID,
		StyleName:        generated.StyleName,
		Description:      generated.Description,
		PromptUsed:       generated.PromptUsed,
		OriginalImageURL: originalURL,
		MIME:             generated.MIME,
		Bytes:            int64(len(generated.Data)),
	}

	outcome := domain.OK()
	variation.ArtifactURL, outcome = o.storeVariation(ctx, req, generated, index, outcome)

	if o.variations != nil {
		if err := o.variations.Insert(ctx, variation); err != nil {
			// The user keeps the in-memory artifact even when the save fails.
			o.logger.Error().Err(err).
				Str("session_id", req.SessionID).
				Str("variation_id", variation.ID).
				Msg("pipeline: variation persistence failed")
			outcome = domain.Degraded("metadata persistence failed: " + err.Error())
		}
	}

	return domain.VariationResult{Index: index, Variation: variation, Outcome: outcome}
}

// storeVariation uploads the generated bytes. On storage failure the
// variation degrades to an ephemeral inline reference instead of failing.
func (o *Orchestrator) storeVariation(ctx context.Context, req Request, generated *imageprovider.Generated, index int, outcome domain.Outcome) (string, domain.Outcome) {
	if o.store == nil {
		return media.DataURL(generated.Data, generated.MIME), domain.Degraded("no object store configured")
	}
	key := storage.UserKey(req.UserID, "variations", fmt.Sprintf("%s-%02d", req.SessionID, index+1), generated.MIME)
	saved, err := o.store.Write(ctx, key, generated.Data)
	if err != nil {
		o.logger.Warn().Err(err).
			Str("session_id", req.SessionID).
			Int("slot", index).
			Msg("pipeline: variation upload failed, keeping ephemeral reference")
		return media.DataURL(generated.Data, generated.MIME), domain.Degraded("storage failed: " + err.Error())
	}
	return o.store.PublicURL(saved), outcome
}

func (o *Orchestrator) storeOriginal(ctx context.Context, req Request, encoded *media.EncodedImage) string {
	if o.store == nil {
		return ""
	}
	data, err := media.Decode(encoded)
	if err != nil {
		return ""
	}
	key := storage.UserKey(req.UserID, "originals", req.SessionID, encoded.MIME)
	saved, err := o.store.Write(ctx, key, data)
	if err != nil {
		o.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("pipeline: original upload failed")
		return ""
	}
	return o.store.PublicURL(saved)
}

// runVideo is best-effort: the session completes with a playable artifact no
// matter what happens here.
func (o *Orchestrator) runVideo(ctx context.Context, req Request, encoded *media.EncodedImage, originalURL string, analysisResult domain.ImageAnalysis, session *domain.GenerationSession) {
	if o.video == nil {
		session.VideoNote = domain.Failed("video generator not configured")
		return
	}

	prompt := req.VideoPrompt
	if prompt == "" {
		prompt = fmt.Sprintf("Cinematic promotional shot of the %s, %s", analysisResult.ProductType, analysisResult.Summary())
	}

	// An image-to-video artifact must reference its source image. If the
	// original upload could not be stored, an inline data URL stands in so
	// provenance survives and the row remains insertable.
	sourceURL := originalURL
	if sourceURL == "" && encoded != nil {
		sourceURL = encoded.DataURL()
	}

	res := o.video.Generate(ctx, videoprovider.Request{
		Title:          videoTitle(analysisResult),
		Prompt:         prompt,
		Image:          encoded,
		SourceImageURL: sourceURL,
		AspectRatio:    "16:9",
	})

	artifact, outcome := o.persistVideo(ctx, req.UserID, req.SessionID, res)
	session.Video = artifact
	session.VideoNote = outcome
}

// persistVideo stores downloaded video bytes and inserts the artifact row.
// Storage trouble downgrades to the fallback clip; the artifact survives.
func (o *Orchestrator) persistVideo(ctx context.Context, userID, jobID string, res videoprovider.Result) (*domain.VideoArtifact, domain.Outcome) {
	artifact := res.Artifact
	artifact.ID = uuid.NewString()
	artifact.UserID = userID

	if len(res.Data) > 0 {
		key := storage.UserKey(userID, "videos", jobID, res.MIME)
		if o.store != nil {
			if saved, err := o.store.Write(ctx, key, res.Data); err != nil {
				o.logger.Warn().Err(err).Str("job_id", jobID).Msg("pipeline: video upload failed, serving fallback clip")
				artifact.VideoURL = o.videoFallbackURL
				res.Outcome = domain.Degraded("storage failed: " + err.Error())
			} else {
				artifact.VideoURL = o.store.PublicURL(saved)
			}
		} else {
			artifact.VideoURL = o.videoFallbackURL
			res.Outcome = domain.Degraded("no object store configured")
		}
	}

	if o.videos != nil && artifact.VideoURL != "" {
		if err := o.videos.Insert(ctx, &artifact); err != nil {
			o.logger.Error().Err(err).Str("job_id", jobID).Msg("pipeline: video persistence failed")
		}
	}
	return &artifact, res.Outcome
}

// RunVideoJob produces one standalone video artifact outside a full session,
// optionally animating an already-stored image.
func (o *Orchestrator) RunVideoJob(ctx context.Context, userID, jobID string, payload VideoJobPayload) (*domain.VideoArtifact, error) {
	if o.video == nil {
		return nil, fmt.Errorf("video generator not configured")
	}
	if payload.Prompt == "" {
		return nil, fmt.Errorf("video prompt is required")
	}

	var encoded *media.EncodedImage
	if payload.ImageB64 != "" {
		var err error
		encoded, err = media.FromBase64(payload.ImageB64, payload.MIME)
		if err != nil {
			return nil, err
		}
	}

	sourceURL := payload.SourceImageURL
	if sourceURL == "" && encoded != nil {
		sourceURL = encoded.DataURL()
	}

	res := o.video.Generate(ctx, videoprovider.Request{
		Title:          payload.Title,
		Prompt:         payload.Prompt,
		Image:          encoded,
		SourceImageURL: sourceURL,
		AspectRatio:    payload.AspectRatio,
	})

	artifact, _ := o.persistVideo(ctx, userID, jobID, res)
	return artifact, nil
}

func videoTitle(a domain.ImageAnalysis) string {
	if a.ProductType == "" {
		return "Promotional video"
	}
	return "Promo: " + a.ProductType
}
