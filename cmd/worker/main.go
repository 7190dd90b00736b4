package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"adgen/internal/adapter/repo"
	"adgen/internal/domain"
	"adgen/internal/infra"
	"adgen/internal/pipeline"
	"adgen/internal/providers/analysis"
	"adgen/internal/providers/gemini"
	imageprovider "adgen/internal/providers/image"
	"adgen/internal/providers/promptgen"
	videoprovider "adgen/internal/providers/video"
	"adgen/internal/sqlinline"
	"adgen/internal/storage"
)

const (
	statusSucceeded = "SUCCEEDED"
	statusFailed    = "FAILED"

	jobPollInterval = 2 * time.Second
)

type job struct {
	ID       string
	UserID   string
	TaskType string
	Payload  json.RawMessage
}

type jobWorker struct {
	ctx          context.Context
	runner       *infra.SQLRunner
	logger       infra.Logger
	orchestrator *pipeline.Orchestrator
}

var errNoJobAvailable = errors.New("no job available")

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	store, err := storage.NewFileStore(storagePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	orchestrator, err := buildOrchestrator(cfg, store, pool, logger)
	if err != nil {
		// Missing credentials surface here, before any job is claimed.
		logger.Fatal().Err(err).Msg("worker: failed to configure pipeline")
	}

	worker := &jobWorker{
		ctx:          ctx,
		runner:       runner,
		logger:       logger,
		orchestrator: orchestrator,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func buildOrchestrator(cfg *infra.Config, store storage.ObjectStore, pool *pgxpool.Pool, logger infra.Logger) (*pipeline.Orchestrator, error) {
	httpClient := &http.Client{Timeout: 120 * time.Second}
	client, err := gemini.NewClient(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		TextModel:  cfg.GeminiModel,
		ImageModel: cfg.GeminiImageModel,
		VideoModel: cfg.GeminiVideoModel,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	analyzer, err := buildAnalyzer(cfg, client)
	if err != nil {
		return nil, err
	}
	prompts, err := promptgen.NewGeminiGenerator(client)
	if err != nil {
		return nil, fmt.Errorf("prompt generator: %w", err)
	}
	images, err := imageprovider.NewGeminiVariationGenerator(client)
	if err != nil {
		return nil, fmt.Errorf("image generator: %w", err)
	}
	video, err := videoprovider.NewGenerator(videoprovider.Options{
		Client:       client,
		PollInterval: cfg.VideoPollInterval,
		PollAttempts: cfg.VideoPollAttempts,
		FallbackURL:  cfg.VideoFallbackURL,
		Logger:       &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("video generator: %w", err)
	}

	return pipeline.NewOrchestrator(pipeline.Options{
		Analyzer:         analyzer,
		Prompts:          prompts,
		Images:           images,
		Video:            video,
		Variations:       repo.NewVariationRepository(pool),
		Videos:           repo.NewVideoRepository(pool),
		Store:            store,
		Logger:           &logger,
		VariationCount:   cfg.VariationCount,
		VideoFallbackURL: cfg.VideoFallbackURL,
	})
}

func buildAnalyzer(cfg *infra.Config, client *gemini.Client) (analysis.Analyzer, error) {
	switch cfg.AnalysisProvider {
	case "openai":
		analyzer, err := analysis.NewOpenAIAnalyzer(analysis.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("openai analyzer: %w", err)
		}
		return analyzer, nil
	default:
		analyzer, err := analysis.NewGeminiAnalyzer(client)
		if err != nil {
			return nil, fmt.Errorf("gemini analyzer: %w", err)
		}
		return analyzer, nil
	}
}

func (w *jobWorker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		j, err := w.claimJob()
		if err != nil {
			if errors.Is(err, errNoJobAvailable) {
				time.Sleep(jobPollInterval)
				continue
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim job")
			time.Sleep(jobPollInterval)
			continue
		}

		w.handleJob(j)
	}
}

func (w *jobWorker) claimJob() (job, error) {
	row := w.runner.QueryRow(w.ctx, sqlinline.QClaimGenerationJob)
	var j job
	if err := row.Scan(&j.ID, &j.UserID, &j.TaskType, &j.Payload); err != nil {
		if infra.IsNoRows(err) {
			return job{}, errNoJobAvailable
		}
		return job{}, err
	}
	// Ensure payload bytes are not aliased.
	j.Payload = append(json.RawMessage(nil), j.Payload...)
	return j, nil
}

func (w *jobWorker) handleJob(j job) {
	w.logger.Info().Str("job_id", j.ID).Str("task_type", j.TaskType).Msg("worker: picked job")

	resultValue, err := w.dispatch(j)

	status := statusSucceeded
	errorMessage := ""
	if err != nil {
		status = statusFailed
		errorMessage = err.Error()
		w.logger.Error().Err(err).Str("job_id", j.ID).Msg("worker: job failed")
	}

	var result []byte
	if resultValue != nil {
		if encoded, marshalErr := json.Marshal(resultValue); marshalErr == nil {
			result = encoded
		} else {
			w.logger.Error().Err(marshalErr).Str("job_id", j.ID).Msg("worker: encode job result failed")
		}
	}

	if err := w.completeJob(j.ID, status, result, errorMessage); err != nil {
		w.logger.Error().Err(err).Str("job_id", j.ID).Msg("worker: update status failed")
	}
}

func (w *jobWorker) dispatch(j job) (any, error) {
	switch j.TaskType {
	case pipeline.TaskSessionGeneration:
		return w.runSession(j)
	case pipeline.TaskVideoGeneration:
		return w.runVideoJob(j)
	default:
		return nil, fmt.Errorf("unsupported job type %q", j.TaskType)
	}
}

func (w *jobWorker) runVideoJob(j job) (*domain.VideoArtifact, error) {
	var payload pipeline.VideoJobPayload
	if err := json.Unmarshal(j.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode video payload: %w", err)
	}
	return w.orchestrator.RunVideoJob(w.ctx, j.UserID, j.ID, payload)
}

func (w *jobWorker) runSession(j job) (*domain.GenerationSession, error) {
	var payload pipeline.SessionJobPayload
	if err := json.Unmarshal(j.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	req, err := payload.ToRequest(j.UserID, j.ID)
	if err != nil {
		return nil, err
	}
	return w.orchestrator.RunSession(w.ctx, req)
}

func (w *jobWorker) completeJob(jobID, status string, result []byte, errorMessage string) error {
	_, err := w.runner.Exec(w.ctx, sqlinline.QCompleteGenerationJob, jobID, status, result, errorMessage)
	return err
}
