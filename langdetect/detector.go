package langdetect

import (
	"strings"
	"unicode"
)

// Class is the coarse classification used for routing.
type Class string

const (
	KO      Class = "KO"
	NonKO   Class = "NON_KO"
	Unknown Class = "UNKNOWN"
)

// Candidate is one ranked identification.
type Candidate struct {
	Tag        string
	Confidence float64
}

// Identifier ranks candidate languages for text, best first.
type Identifier interface {
	Identify(text string) []Candidate
}

// IdentifierFunc adapts a function to Identifier.
type IdentifierFunc func(text string) []Candidate

// Identify implements Identifier.
func (f IdentifierFunc) Identify(text string) []Candidate { return f(text) }

// Fixed returns an Identifier that always yields candidates.
func Fixed(candidates ...Candidate) Identifier {
	return IdentifierFunc(func(string) []Candidate { return candidates })
}

// Detection is the result of Detect. Tag is empty for UNKNOWN or when the
// pre-check decided without a model.
type Detection struct {
	Class      Class
	Tag        string
	Confidence float64
}

// Detector is pure: the same text always yields the same Detection.
type Detector struct {
	cfg Config
	id  Identifier
}

// New creates a Detector. A nil identifier uses DefaultIdentifier.
func New(cfg Config, id Identifier) *Detector {
	cfg.ApplyDefaults()
	if id == nil {
		id = DefaultIdentifier()
	}
	return &Detector{cfg: cfg, id: id}
}

// Detect classifies text.
func (d *Detector) Detect(text string) Detection {
	text = strings.TrimSpace(text)
	if text == "" {
		return Detection{Class: Unknown}
	}
	if d.looksLocal(text) {
		return Detection{Class: KO, Tag: d.cfg.LocalPrefix, Confidence: 1}
	}

	ranked := make([]Candidate, 0, 4)
	for _, c := range d.id.Identify(text) {
		if c.Tag == "" || strings.EqualFold(c.Tag, "und") {
			continue
		}
		ranked = append(ranked, c)
	}
	if len(ranked) == 0 {
		return Detection{Class: Unknown}
	}

	top := ranked[0]
	if top.Confidence < d.cfg.MinConfidence {
		return Detection{Class: Unknown}
	}
	if len(ranked) > 1 && top.Confidence-ranked[1].Confidence < d.cfg.MinMargin {
		return Detection{Class: Unknown}
	}

	class := NonKO
	if strings.HasPrefix(strings.ToLower(top.Tag), d.cfg.LocalPrefix) {
		class = KO
	}
	return Detection{Class: class, Tag: top.Tag, Confidence: top.Confidence}
}

// looksLocal is the Hangul pre-check.
func (d *Detector) looksLocal(text string) bool {
	var hangul, counted, runes int
	for _, r := range text {
		runes++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		counted++
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		}
	}
	if hangul == 0 {
		return false
	}
	if runes <= d.cfg.ShortSnippetRunes {
		return true
	}
	return float64(hangul)/float64(counted) >= d.cfg.ScriptRatio
}
