package langdetect

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultFallbackCode is used when no tag maps.
const DefaultFallbackCode = "en-US"

// DefaultCodes maps detected tags (lower-case) to cloud engine codes.
func DefaultCodes() map[string]string {
	return map[string]string{
		"en":    "en-US",
		"en-us": "en-US",
		"en-gb": "en-GB",
		"ko":    "ko-KR",
		"ko-kr": "ko-KR",
		"ja":    "ja-JP",
		"ja-jp": "ja-JP",
		"zh":    "cmn-Hans-CN",
		"zh-cn": "cmn-Hans-CN",
		"zh-tw": "cmn-Hant-TW",
		"fr":    "fr-FR",
		"de":    "de-DE",
		"es":    "es-ES",
		"pt":    "pt-BR",
		"it":    "it-IT",
		"ru":    "ru-RU",
		"vi":    "vi-VN",
		"th":    "th-TH",
		"id":    "id-ID",
		"hi":    "hi-IN",
	}
}

// CodeTable resolves detected tags to engine language codes.
type CodeTable struct {
	codes    map[string]string
	fallback string
}

// NewCodeTable builds a table. Keys are matched case-insensitively with
// '_' treated as '-'. Nil codes use DefaultCodes; an empty fallback uses
// DefaultFallbackCode.
func NewCodeTable(codes map[string]string, fallback string) *CodeTable {
	if codes == nil {
		codes = DefaultCodes()
	}
	norm := make(map[string]string, len(codes))
	for k, v := range codes {
		norm[normalize(k)] = v
	}
	if fallback == "" {
		fallback = DefaultFallbackCode
	}
	return &CodeTable{codes: norm, fallback: fallback}
}

// Fallback returns the code used for unmapped or empty tags.
func (t *CodeTable) Fallback() string { return t.fallback }

// Resolve maps tag: exact entry, then the base language entry, then the
// canonical "lang-REGION" form when the tag carries a region, then the
// fallback.
func (t *CodeTable) Resolve(tag string) string {
	key := normalize(tag)
	if key == "" {
		return t.fallback
	}
	if code, ok := t.codes[key]; ok {
		return code
	}

	parsed, err := language.Parse(key)
	if err != nil {
		return t.fallback
	}
	base, _ := parsed.Base()
	if code, ok := t.codes[base.String()]; ok {
		return code
	}
	if region, conf := parsed.Region(); conf == language.Exact {
		return base.String() + "-" + region.String()
	}
	return t.fallback
}

// SameBase reports whether code's base language equals prefix.
func SameBase(code, prefix string) bool {
	parsed, err := language.Parse(normalize(code))
	if err != nil {
		return strings.HasPrefix(strings.ToLower(code), strings.ToLower(prefix))
	}
	base, _ := parsed.Base()
	return strings.EqualFold(base.String(), prefix)
}

func normalize(tag string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), "_", "-")
}
