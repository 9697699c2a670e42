package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jdmatch/internal/domain/analysis"
	"jdmatch/internal/infrastructure/fetcher"
	"jdmatch/internal/repository"
)

type mockModel struct {
	reply     string
	err       error
	lastUser  string
	lastSys   string
	calls     int
	probeErr  error
	probeResp string
}

func (m *mockModel) Complete(_ context.Context, system, user string) (string, error) {
	m.calls++
	m.lastSys, m.lastUser = system, user
	return m.reply, m.err
}

func (m *mockModel) Probe(context.Context, string) (string, error) {
	return m.probeResp, m.probeErr
}

type mockPages struct {
	text string
	err  error
	urls []string
}

func (m *mockPages) Fetch(_ context.Context, rawURL string) (string, error) {
	m.urls = append(m.urls, rawURL)
	return m.text, m.err
}

func TestAnalysis_Analyze(t *testing.T) {
	model := &mockModel{reply: "```json\n{\"candidateName\":\"Ada\",\"matchScore\":91}\n```"}
	uc := NewAnalysisUsecase(model, nil, nil, nil, nil)

	res, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "resume", JobDescription: "Go developer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CandidateName != "Ada" || res.MatchScore != 91 || res.Email != analysis.PlaceholderNotFound {
		t.Fatalf("unexpected result: %+v", res)
	}
	if model.lastSys != analysis.SystemPrompt || !strings.Contains(model.lastUser, "Go developer") {
		t.Fatalf("unexpected prompts: %q / %q", model.lastSys, model.lastUser)
	}
}

func TestAnalysis_EmbedsTextVerbatim(t *testing.T) {
	model := &mockModel{reply: "{}"}
	uc := NewAnalysisUsecase(model, nil, nil, nil, nil)

	resume := "  Ada Lovelace\n  Go, SQL\n"
	jd := "\n  Backend Engineer  \n"
	if _, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: resume, JobDescription: jd}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.lastUser != analysis.BuildPrompt(resume, jd) {
		t.Fatalf("expected both texts embedded unchanged, got %q", model.lastUser)
	}
}

func TestAnalysis_UnparseableReplyIsNotAnError(t *testing.T) {
	uc := NewAnalysisUsecase(&mockModel{reply: "I cannot help with that."}, nil, nil, nil, nil)

	res, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "r", JobDescription: "j"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CandidateName != analysis.PlaceholderErrorParsing || res.Recommendations != analysis.PlaceholderParseFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAnalysis_RequiresResumeAndJD(t *testing.T) {
	model := &mockModel{}
	uc := NewAnalysisUsecase(model, nil, nil, nil, nil)

	for _, p := range []AnalyzeParams{
		{ResumeText: "", JobDescription: "j"},
		{ResumeText: "r"},
		{ResumeText: "   ", JobDescriptionURL: "https://example.com"},
	} {
		if _, err := uc.Analyze(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", p, err)
		}
	}
	if model.calls != 0 {
		t.Fatalf("model must not be called for invalid input")
	}
}

func TestAnalysis_ModelFailure(t *testing.T) {
	uc := NewAnalysisUsecase(&mockModel{err: errors.New("401 unauthorized")}, nil, nil, nil, nil)

	if _, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "r", JobDescription: "j"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestAnalysis_NotConfigured(t *testing.T) {
	uc := NewAnalysisUsecase(nil, nil, nil, nil, nil)

	if _, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "r", JobDescription: "j"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if p := uc.Probe(context.Background()); p.Success {
		t.Fatalf("expected failed probe, got %+v", p)
	}
}

func TestAnalysis_FetchesURLWhenNoText(t *testing.T) {
	model := &mockModel{reply: `{"matchScore": 10}`}
	pages := &mockPages{text: "Fetched posting for Rust engineer"}
	uc := NewAnalysisUsecase(model, pages, nil, nil, nil)

	if _, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "r", JobDescriptionURL: "https://jobs.example.com/1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages.urls) != 1 || !strings.Contains(model.lastUser, "Rust engineer") {
		t.Fatalf("expected fetched text in prompt, urls=%v", pages.urls)
	}

	pages.err = fetcher.ErrInvalidURL
	if _, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "r", JobDescriptionURL: "ftp://x"}); !errors.Is(err, ErrUnreadableURL) {
		t.Fatalf("expected ErrUnreadableURL, got %v", err)
	}

	pages.err = errors.New("dial tcp: timeout")
	if _, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "r", JobDescriptionURL: "https://x"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestAnalysis_InlineTextWinsOverURL(t *testing.T) {
	pages := &mockPages{text: "unused"}
	uc := NewAnalysisUsecase(&mockModel{reply: "{}"}, pages, nil, nil, nil)

	if _, err := uc.Analyze(context.Background(), AnalyzeParams{ResumeText: "r", JobDescription: "inline", JobDescriptionURL: "https://x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages.urls) != 0 {
		t.Fatalf("expected no fetch when inline text is present")
	}
}

func TestAnalysis_AnalyzeJobDescription(t *testing.T) {
	jds := NewJobDescriptionUsecase(repository.NewMemoryJobDescriptionRepository())
	created, err := jds.Create(context.Background(), "u1", sampleInput("Platform Engineer"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	model := &mockModel{reply: `{"matchScore": 64}`}
	uc := NewAnalysisUsecase(model, nil, jds, nil, nil)

	res, err := uc.AnalyzeJobDescription(context.Background(), "u1", created.ID.String(), "my resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MatchScore != 64 || !strings.Contains(model.lastUser, "Position: Platform Engineer") {
		t.Fatalf("unexpected analysis: %+v / %q", res, model.lastUser)
	}

	if _, err := uc.AnalyzeJobDescription(context.Background(), "u2", created.ID.String(), "my resume"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if _, err := uc.AnalyzeJobDescription(context.Background(), "u1", created.ID.String(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank resume, got %v", err)
	}
}

func TestAnalysis_Probe(t *testing.T) {
	long := strings.Repeat("x", 150)
	uc := NewAnalysisUsecase(&mockModel{probeResp: long}, nil, nil, nil, nil)

	p := uc.Probe(context.Background())
	if !p.Success || p.Message != "Connected successfully! Response: "+long[:100] {
		t.Fatalf("unexpected probe: %+v", p)
	}

	uc = NewAnalysisUsecase(&mockModel{probeErr: errors.New("boom")}, nil, nil, nil, nil)
	if p := uc.Probe(context.Background()); p.Success || p.Message != "Connection failed" {
		t.Fatalf("unexpected probe: %+v", p)
	}
}
