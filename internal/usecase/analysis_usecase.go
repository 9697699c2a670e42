package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"jdmatch/internal/domain/analysis"
	"jdmatch/internal/infrastructure/fetcher"
	"jdmatch/internal/infrastructure/llm"
	"jdmatch/internal/pkg/logger"
	"jdmatch/internal/pkg/metrics"
)

type AnalyzeParams struct {
	ResumeText        string
	JobDescription    string
	JobDescriptionURL string
}

type ProbeResult struct {
	Success bool
	Message string
}

type AnalysisUsecase interface {
	Analyze(ctx context.Context, p AnalyzeParams) (analysis.Result, error)
	AnalyzeJobDescription(ctx context.Context, userID, jobID, resumeText string) (analysis.Result, error)
	Probe(ctx context.Context) ProbeResult
}

type Analysis struct {
	model   llm.ChatCompleter
	pages   fetcher.PageFetcher
	jds     JobDescriptionUsecase
	metrics *metrics.Manager
	log     logger.Logger
}

// NewAnalysisUsecase wires the analysis flow. model may be nil when no API
// key is configured; every analysis then fails with ErrUnavailable.
func NewAnalysisUsecase(model llm.ChatCompleter, pages fetcher.PageFetcher, jds JobDescriptionUsecase, m *metrics.Manager, log logger.Logger) *Analysis {
	if log == nil {
		log = logger.Nop()
	}
	return &Analysis{model: model, pages: pages, jds: jds, metrics: m, log: log.Named("analysis")}
}

// Analyze sends the resume and job description text verbatim. Blank text
// counts as absent; a URL is fetched only when no inline text is given.
func (u *Analysis) Analyze(ctx context.Context, p AnalyzeParams) (analysis.Result, error) {
	hasText := strings.TrimSpace(p.JobDescription) != ""
	jdURL := strings.TrimSpace(p.JobDescriptionURL)
	if strings.TrimSpace(p.ResumeText) == "" || (!hasText && jdURL == "") {
		return analysis.Result{}, ErrInvalidInput
	}
	if u.model == nil {
		return analysis.Result{}, ErrUnavailable
	}

	jdText := p.JobDescription
	if !hasText {
		text, err := u.fetchJobDescription(ctx, jdURL)
		if err != nil {
			return analysis.Result{}, err
		}
		jdText = text
	}

	return u.run(ctx, p.ResumeText, jdText)
}

func (u *Analysis) AnalyzeJobDescription(ctx context.Context, userID, jobID, resumeText string) (analysis.Result, error) {
	if strings.TrimSpace(resumeText) == "" {
		return analysis.Result{}, ErrInvalidInput
	}
	if u.jds == nil {
		return analysis.Result{}, ErrInternal
	}

	jd, err := u.jds.Get(ctx, userID, jobID)
	if err != nil {
		return analysis.Result{}, err
	}
	if u.model == nil {
		return analysis.Result{}, ErrUnavailable
	}
	return u.run(ctx, resumeText, jd.PlainText())
}

// run makes one model call. Malformed replies never fail the request; they
// produce the defaulted result instead.
func (u *Analysis) run(ctx context.Context, resumeText, jdText string) (analysis.Result, error) {
	start := time.Now()
	raw, err := u.model.Complete(ctx, analysis.SystemPrompt, analysis.BuildPrompt(resumeText, jdText))
	if err != nil {
		u.metrics.ObserveLLMCall(metrics.LLMOutcomeError, time.Since(start))
		u.log.Error(ctx, "model call failed", logger.Error(err))
		return analysis.Result{}, ErrInternal
	}

	result, outcome := analysis.Parse(raw)
	if outcome.Failed() {
		u.metrics.ObserveLLMCall(metrics.LLMOutcomeParseFailure, time.Since(start))
		u.log.Warn(ctx, "model reply could not be parsed",
			logger.String("outcome", string(outcome)),
			logger.Int("replyLength", len(raw)),
		)
		return result, nil
	}

	u.metrics.ObserveLLMCall(metrics.LLMOutcomeParsed, time.Since(start))
	return result, nil
}

func (u *Analysis) fetchJobDescription(ctx context.Context, rawURL string) (string, error) {
	if u.pages == nil {
		return "", ErrUnreadableURL
	}
	text, err := u.pages.Fetch(ctx, rawURL)
	if err == nil {
		return text, nil
	}
	if errors.Is(err, fetcher.ErrInvalidURL) || errors.Is(err, fetcher.ErrNoContent) {
		return "", ErrUnreadableURL
	}
	u.log.Error(ctx, "fetch job description page failed", logger.String("url", rawURL), logger.Error(err))
	return "", ErrInternal
}

const probeExcerptLen = 100

func (u *Analysis) Probe(ctx context.Context) ProbeResult {
	if u.model == nil {
		return ProbeResult{Success: false, Message: "Connection failed: " + ErrUnavailable.Error()}
	}
	reply, err := u.model.Probe(ctx, analysis.ProbePrompt)
	if err != nil {
		u.log.Warn(ctx, "model probe failed", logger.Error(err))
		return ProbeResult{Success: false, Message: "Connection failed"}
	}
	if r := []rune(reply); len(r) > probeExcerptLen {
		reply = string(r[:probeExcerptLen])
	}
	return ProbeResult{Success: true, Message: "Connected successfully! Response: " + reply}
}
