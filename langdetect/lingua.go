package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguages is the candidate set of the default identifier.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.Korean,
	lingua.Japanese,
	lingua.Chinese,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Vietnamese,
	lingua.Thai,
	lingua.Indonesian,
	lingua.Hindi,
	lingua.Russian,
}

// LinguaIdentifier ranks languages with a lingua n-gram model. Confidences
// are relative to the configured languages and sum to 1.
type LinguaIdentifier struct {
	detector lingua.LanguageDetector
}

// NewLinguaIdentifier builds an identifier over languages. Fewer than two
// languages use DefaultLanguages. Models load lazily on first use.
func NewLinguaIdentifier(languages ...lingua.Language) *LinguaIdentifier {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	return &LinguaIdentifier{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build(),
	}
}

var defaultIdentifier = sync.OnceValue(func() *LinguaIdentifier { return NewLinguaIdentifier() })

// DefaultIdentifier returns the shared identifier over DefaultLanguages.
func DefaultIdentifier() *LinguaIdentifier { return defaultIdentifier() }

// Identify implements Identifier.
func (l *LinguaIdentifier) Identify(text string) []Candidate {
	values := l.detector.ComputeLanguageConfidenceValues(text)
	out := make([]Candidate, 0, len(values))
	for _, v := range values {
		if v.Value() <= 0 {
			continue
		}
		tag := strings.ToLower(v.Language().IsoCode639_1().String())
		out = append(out, Candidate{Tag: tag, Confidence: v.Value()})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
