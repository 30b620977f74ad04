package langdetect

import (
	"testing"

	"github.com/pemistahl/lingua-go"
)

func TestDetect_Policy(t *testing.T) {
	tests := []struct {
		name string
		id   Identifier
		text string
		want Class
		tag  string
	}{
		{"blank", nil, "   ", Unknown, ""},
		{"hangul greeting", Fixed(), "안녕하세요", KO, "ko"},
		{"short snippet with one hangul rune", Fixed(Candidate{"en", 0.99}), "ok 네", KO, "ko"},
		{"hangul ratio below threshold", Fixed(Candidate{"en", 0.9}), "hello world this is a test 네", NonKO, "en"},
		{"low confidence", Fixed(Candidate{"fr", 0.49}), "bonjour", Unknown, ""},
		{"ambiguous margin", Fixed(Candidate{"es", 0.6}, Candidate{"pt", 0.55}), "obrigado", Unknown, ""},
		{"clear margin", Fixed(Candidate{"es", 0.7}, Candidate{"pt", 0.59}), "gracias", NonKO, "es"},
		{"model says korean", Fixed(Candidate{"ko-Latn", 0.8}), "annyeonghaseyo", KO, "ko-Latn"},
		{"undetermined skipped", Fixed(Candidate{"und", 0.9}, Candidate{"ja", 0.7}), "konnichiwa", NonKO, "ja"},
		{"only undetermined", Fixed(Candidate{"und", 1}), "zzz", Unknown, ""},
		{"no candidates", Fixed(), "zzz", Unknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(Config{}, tt.id).Detect(tt.text)
			if got.Class != tt.want {
				t.Errorf("expected %s, got %s (%+v)", tt.want, got.Class, got)
			}
			if got.Tag != tt.tag {
				t.Errorf("expected tag %q, got %q", tt.tag, got.Tag)
			}
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := New(Config{}, nil)
	first := d.Detect("Hello, how are you today?")
	for i := 0; i < 10; i++ {
		if got := d.Detect("Hello, how are you today?"); got != first {
			t.Fatalf("expected %+v, got %+v", first, got)
		}
	}
	if first.Class != NonKO || first.Tag != "en" {
		t.Errorf("expected NON_KO en, got %+v", first)
	}
}

func TestLinguaIdentifier(t *testing.T) {
	tests := []struct {
		text string
		top  string
	}{
		{"Guten Morgen, wie geht es Ihnen heute", "de"},
		{"Bom dia, como você está hoje", "pt"},
		{"Good morning, how are you doing today", "en"},
		{"Bonjour, comment allez-vous aujourd'hui", "fr"},
		{"Buenos días, ¿cómo está usted hoy?", "es"},
		{"こんにちは、お元気ですか", "ja"},
		{"Привет, как у тебя дела сегодня", "ru"},
	}
	id := DefaultIdentifier()
	for _, tt := range tests {
		t.Run(tt.top, func(t *testing.T) {
			got := id.Identify(tt.text)
			if len(got) == 0 || got[0].Tag != tt.top {
				t.Errorf("expected top %q, got %+v", tt.top, got)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Confidence > got[i-1].Confidence {
					t.Errorf("expected candidates ranked best first, got %+v", got)
				}
			}
		})
	}
}

func TestDetect_LatinLanguagesWithDefaultIdentifier(t *testing.T) {
	d := New(Config{}, nil)
	tests := []struct {
		text  string
		notIn string
		want  string
	}{
		{"Guten Morgen, wie geht es Ihnen heute", "es", "de"},
		{"Bom dia, como você está hoje", "en", "pt"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := d.Detect(tt.text)
			if got.Tag == tt.notIn {
				t.Fatalf("expected %q not to be classified as %q", tt.text, tt.notIn)
			}
			if got.Class == NonKO && got.Tag != tt.want {
				t.Errorf("expected tag %q, got %+v", tt.want, got)
			}
		})
	}
}

func TestLinguaIdentifier_CustomLanguages(t *testing.T) {
	id := NewLinguaIdentifier(lingua.English, lingua.German)
	got := id.Identify("Guten Morgen, wie geht es Ihnen heute")
	if len(got) == 0 || got[0].Tag != "de" {
		t.Fatalf("expected de first, got %+v", got)
	}
	var sum float64
	for _, c := range got {
		if c.Tag != "de" && c.Tag != "en" {
			t.Errorf("unexpected candidate %+v", c)
		}
		sum += c.Confidence
	}
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("expected confidences to sum to 1, got %v", sum)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.MinConfidence != 0.5 || cfg.MinMargin != 0.1 || cfg.ScriptRatio != 0.35 || cfg.ShortSnippetRunes != 4 || cfg.LocalPrefix != "ko" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	cfg.MinConfidence = 2
	if cfg.Validate() == nil {
		t.Error("expected error for confidence above 1")
	}
}
