package service

import (
	"context"
	"ieltsprep/internal/config"
	"ieltsprep/internal/model"
	"ieltsprep/pkg/logger"
	"ieltsprep/pkg/monitoring"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AIService fronts a GenerativeAI provider with throttling, metrics and
// output normalization. Provider failures surface as ErrAIUnavailable so the
// caller can retry; nothing is retried here.
type AIService struct {
	provider GenerativeAI
	limiter  *rate.Limiter
	name     string
}

// NewAIService picks the configured provider, or a deterministic stand-in
// when no credentials are set
func NewAIService(cfg config.AIConfig) *AIService {
	var provider GenerativeAI
	name := cfg.Provider
	switch {
	case !cfg.IsEnabled():
		provider, name = mockAI{}, "mock"
		logger.Log.Warn("AI provider not configured, using placeholder results",
			zap.String("provider", cfg.Provider))
	case cfg.Provider == config.ProviderOpenAI:
		provider = NewOpenAIAI(cfg)
	default:
		provider = NewGeminiAI(cfg)
	}
	return NewAIServiceWithProvider(provider, name, cfg.RateLimit, cfg.Burst)
}

// NewAIServiceWithProvider wires an explicit provider
func NewAIServiceWithProvider(provider GenerativeAI, name string, perSecond float64, burst int) *AIService {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &AIService{
		provider: provider,
		limiter:  rate.NewLimiter(limit, max(burst, 1)),
		name:     name,
	}
}

// Provider reports which provider serves requests
func (s *AIService) Provider() string {
	return s.name
}

func (s *AIService) call(ctx context.Context, op string, fn func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		monitoring.AICallCounter.WithLabelValues(op, "throttled").Inc()
		return errors.Wrap(ErrAIUnavailable, err.Error())
	}

	start := time.Now()
	err := fn()
	monitoring.AICallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		monitoring.AICallCounter.WithLabelValues(op, "error").Inc()
		logger.Log.Error("AI call failed",
			zap.String("action", op),
			zap.String("provider", s.name),
			zap.Error(err))
		return errors.Wrap(ErrAIUnavailable, op)
	}
	monitoring.AICallCounter.WithLabelValues(op, "ok").Inc()
	return nil
}

// TranscribeAudio turns a base64 audio answer into text
func (s *AIService) TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error) {
	var text string
	err := s.call(ctx, OpTranscribe, func() error {
		var err error
		text, err = s.provider.TranscribeAudio(ctx, audioBase64, mimeType)
		return err
	})
	return text, err
}

// GradeWritingTask assesses an essay; scores are snapped to valid bands
func (s *AIService) GradeWritingTask(ctx context.Context, req WritingGradeRequest) (*model.WritingFeedback, error) {
	var feedback *model.WritingFeedback
	err := s.call(ctx, OpGradeWrite, func() error {
		var err error
		feedback, err = s.provider.GradeWritingTask(ctx, req)
		if err == nil && feedback == nil {
			err = errors.New("provider returned no feedback")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return normalizeFeedback(*feedback), nil
}

// ExtractQuiz reads an image or PDF into question groups in canonical
// encoding. Groups of unknown type are dropped with a warning.
func (s *AIService) ExtractQuiz(ctx context.Context, fileBase64, mimeType string) (model.QuizExtraction, []string, error) {
	var raw *model.QuizExtraction
	err := s.call(ctx, OpExtract, func() error {
		var err error
		raw, err = s.provider.ExtractQuiz(ctx, fileBase64, mimeType)
		if err == nil && raw == nil {
			err = errors.New("provider returned no extraction")
		}
		return err
	})
	if err != nil {
		return model.QuizExtraction{}, nil, err
	}

	out, dropped := NormalizeExtraction(*raw)
	for _, d := range dropped {
		logger.Log.Warn("extraction group dropped", zap.String("reason", d))
	}
	return out, dropped, nil
}

func normalizeFeedback(f model.WritingFeedback) *model.WritingFeedback {
	c := &f.Criteria
	for _, cs := range []*model.CriterionScore{&c.TaskAchievement, &c.CoherenceCohesion, &c.LexicalResource, &c.GrammaticalRange} {
		cs.Score = snapBand(cs.Score)
		cs.Comment = strings.TrimSpace(cs.Comment)
	}
	if !IsValidBand(f.OverallBand) {
		mean := (c.TaskAchievement.Score + c.CoherenceCohesion.Score + c.LexicalResource.Score + c.GrammaticalRange.Score) / 4
		f.OverallBand = snapBand(mean)
	}
	f.GeneralComment = strings.TrimSpace(f.GeneralComment)
	return &f
}

// snapBand rounds to the nearest half band within 0-9
func snapBand(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return math.Max(0, math.Min(9, math.Round(v*2)/2))
}
