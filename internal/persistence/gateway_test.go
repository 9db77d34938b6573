package persistence

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/exchange"
	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/scoring"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testState() model.AssessmentState {
	level := 2
	return model.AssessmentState{
		Participant: model.Participant{Name: "Ada Lovelace", SelfAssessment: &level},
		Sessions: map[string]*model.Session{
			"dimension1": {Status: model.SessionStatusCompleted, Answers: model.Answers{"d1_q1": 4, "d1_gk1": 1}},
		},
	}
}

func newTestGateway(sink Sink, timeout time.Duration) (*Gateway, *scoring.Engine) {
	engine := scoring.NewEngine(catalog.Default(), zerolog.Nop())
	g := NewGateway(sink, engine, timeout, zerolog.Nop())
	g.now = func() time.Time { return fixedNow }
	return g, engine
}

func expectedBody(t *testing.T, engine *scoring.Engine) []byte {
	t.Helper()
	b, err := exchange.Export(engine, testState(), fixedNow)
	require.NoError(t, err)
	return b
}

func TestSaveSaved(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		received, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path":"results/abc.json"}`))
	}))
	defer srv.Close()

	g, engine := newTestGateway(NewHTTPSink(srv.URL, srv.Client()), time.Second)
	out, err := g.Save(context.Background(), testState())
	require.NoError(t, err)

	saved, ok := out.(Saved)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "results/abc.json", saved.Location)
	assert.Equal(t, OutcomeSaved, out.Kind())
	assert.Equal(t, expectedBody(t, engine), received)
}

func TestSaveEnvelopedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"path":"results/42"},"error":null}`))
	}))
	defer srv.Close()

	g, _ := newTestGateway(NewHTTPSink(srv.URL, srv.Client()), time.Second)
	out, err := g.Save(context.Background(), testState())
	require.NoError(t, err)
	assert.Equal(t, Saved{Location: "results/42"}, out)
}

func TestSaveUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		timeout time.Duration
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			timeout: time.Second,
		},
		{
			name: "success without location",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"ok":true}`))
			},
			timeout: time.Second,
		},
		{
			name: "success with garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			timeout: time.Second,
		},
		{
			name: "sink never answers in time",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout: 50 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			g, engine := newTestGateway(NewHTTPSink(srv.URL, srv.Client()), tt.timeout)
			out, err := g.Save(context.Background(), testState())
			require.NoError(t, err)

			u, ok := out.(Unavailable)
			require.True(t, ok, "got %T", out)
			assert.NotEmpty(t, u.Reason)
			assert.Equal(t, "AI_Assessment_Ada_Lovelace.json", u.Artifact.Filename)
			assert.Equal(t, ArtifactContentType, u.Artifact.ContentType)
			assert.Equal(t, expectedBody(t, engine), u.Artifact.Body)
		})
	}
}

func TestSaveUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g, _ := newTestGateway(NewHTTPSink(url, nil), time.Second)
	out, err := g.Save(context.Background(), testState())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnavailable, out.Kind())
}

type recordingSink struct {
	body []byte
}

func (s *recordingSink) Submit(_ context.Context, body []byte) (string, error) {
	s.body = body
	return "", ErrNoLocation
}

func TestFallbackBytesMatchSubmission(t *testing.T) {
	sink := &recordingSink{}
	g, _ := newTestGateway(sink, time.Second)

	out, err := g.Save(context.Background(), testState())
	require.NoError(t, err)

	u := out.(Unavailable)
	assert.Equal(t, sink.body, u.Artifact.Body)
	assert.Equal(t, ErrNoLocation.Error(), u.Reason)
}

func TestArtifactFilename(t *testing.T) {
	tests := map[string]string{
		"Ada Lovelace":       "AI_Assessment_Ada_Lovelace.json",
		"  spaced   out  ":   "AI_Assessment_spaced_out.json",
		"../../etc/passwd":   "AI_Assessment_etcpasswd.json",
		"Jörg Müller-Lüdens": "AI_Assessment_Joerg_Mueller-Luedens.json",
		"Jürgen Müller":      "AI_Assessment_Juergen_Mueller.json",
		"Straße":             "AI_Assessment_Strasse.json",
		"José Núñez":         "AI_Assessment_Jose_Nunez.json",
		"李雷":                 "AI_Assessment_participant.json",
		"":                   "AI_Assessment_participant.json",
		"???":                "AI_Assessment_participant.json",
	}
	for in, want := range tests {
		assert.Equal(t, want, ArtifactFilename(in), in)
	}
}
