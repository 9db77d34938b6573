package persistence

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/stemsi/ailit-assessment/internal/exchange"
	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/scoring"
)

const (
	DefaultSaveTimeout  = 10 * time.Second
	ArtifactContentType = "application/json"
	artifactPrefix      = "AI_Assessment_"
	maxFilenameStem     = 80
)

// Gateway saves finished assessments to a sink and falls back to a local
// artifact when the sink cannot take them.
type Gateway struct {
	sink    Sink
	engine  *scoring.Engine
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

func NewGateway(sink Sink, engine *scoring.Engine, timeout time.Duration, log zerolog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}
	return &Gateway{
		sink:    sink,
		engine:  engine,
		timeout: timeout,
		now:     time.Now,
		log:     log.With().Str("component", "persistence_gateway").Logger(),
	}
}

// Save encodes the state once and submits it. Any sink failure, including
// the timeout, yields Unavailable carrying the same bytes. The error return
// is reserved for documents that cannot be encoded at all.
func (g *Gateway) Save(ctx context.Context, state model.AssessmentState) (Outcome, error) {
	body, err := exchange.Export(g.engine, state, g.now())
	if err != nil {
		return nil, err
	}

	artifact := model.Artifact{
		Filename:    ArtifactFilename(state.Participant.Name),
		ContentType: ArtifactContentType,
		Body:        body,
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	location, err := g.sink.Submit(ctx, body)
	if err != nil {
		g.log.Warn().Err(err).Str("artifact", artifact.Filename).Msg("Sink unavailable, offering local artifact")
		return Unavailable{Reason: err.Error(), Artifact: artifact}, nil
	}

	g.log.Info().Str("location", location).Msg("Assessment saved")
	return Saved{Location: location}, nil
}

var umlauts = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss",
)

// foldASCII spells umlauts out and strips remaining diacritics ("é" -> "e").
func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, umlauts.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// ArtifactFilename derives the fallback file name from a participant name.
// Accented Latin letters are folded to ASCII, ASCII letters and digits are
// kept, whitespace becomes an underscore, anything else is dropped.
func ArtifactFilename(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range foldASCII(strings.TrimSpace(name)) {
		if b.Len() >= maxFilenameStem {
			break
		}
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r) || r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	stem := strings.Trim(b.String(), "_")
	if stem == "" {
		stem = "participant"
	}
	return artifactPrefix + stem + ".json"
}
