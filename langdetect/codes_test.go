package langdetect

import "testing"

func TestCodeTable_Resolve(t *testing.T) {
	table := NewCodeTable(nil, "")
	tests := map[string]string{
		"":        "en-US",
		"en":      "en-US",
		"EN_gb":   "en-GB",
		"ko":      "ko-KR",
		"ko-KR":   "ko-KR",
		"zh":      "cmn-Hans-CN",
		"zh-TW":   "cmn-Hant-TW",
		"fr-CA":   "fr-FR",
		"pt-BR":   "pt-BR",
		"pt":      "en-US",
		"!!":      "en-US",
		"ja-Latn": "ja-JP",
	}
	for tag, want := range tests {
		if got := table.Resolve(tag); got != want {
			t.Errorf("Resolve(%q): expected %q, got %q", tag, want, got)
		}
	}
}

func TestCodeTable_Custom(t *testing.T) {
	table := NewCodeTable(map[string]string{"KO": "ko-KR"}, "ko-KR")
	if got := table.Resolve("en"); got != "ko-KR" {
		t.Errorf("expected custom fallback, got %q", got)
	}
	if table.Fallback() != "ko-KR" {
		t.Errorf("unexpected fallback %q", table.Fallback())
	}
	if got := table.Resolve("ko"); got != "ko-KR" {
		t.Errorf("expected case-insensitive key, got %q", got)
	}
}

func TestSameBase(t *testing.T) {
	if !SameBase("ko-KR", "ko") || !SameBase("KO", "ko") {
		t.Error("expected korean codes to share base ko")
	}
	if SameBase("en-US", "ko") {
		t.Error("en-US must not match ko")
	}
}
