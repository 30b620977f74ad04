package httpclient

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

type readPart struct {
	name, fileName, contentType, data string
}

func readParts(t *testing.T, m *MultipartBody) []readPart {
	t.Helper()
	reader, contentType, err := m.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q: %v", contentType, err)
	}
	mr := multipart.NewReader(reader, params["boundary"])
	var parts []readPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(p)
		parts = append(parts, readPart{p.FormName(), p.FileName(), p.Header.Get("Content-Type"), string(data)})
	}
}

func TestMultipartBody_TypedParts(t *testing.T) {
	parts := readParts(t, &MultipartBody{Files: []FileField{
		{FieldName: "media", FileName: "call.m4a", ContentType: "audio/mp4", Data: []byte("audio")},
		{FieldName: "params", ContentType: "application/json", Data: []byte(`{"language":"ko-KR"}`)},
		{FieldName: "type", Data: []byte("application/json")},
	}})
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if p := parts[0]; p.name != "media" || p.fileName != "call.m4a" || p.contentType != "audio/mp4" || p.data != "audio" {
		t.Errorf("unexpected media part %+v", p)
	}
	if p := parts[1]; p.fileName != "" || p.contentType != "application/json" {
		t.Errorf("params must be a typed non-file part, got %+v", p)
	}
	if p := parts[2]; p.contentType != "" || p.data != "application/json" {
		t.Errorf("unexpected type part %+v", p)
	}
}

func TestMultipartBody_FieldsSortedBeforeFiles(t *testing.T) {
	parts := readParts(t, &MultipartBody{
		Fields: map[string]string{"b": "2", "a": "1"},
		Files:  []FileField{{FieldName: "file", FileName: "x.bin", Data: []byte{1}}},
	})
	if len(parts) != 3 || parts[0].name != "a" || parts[1].name != "b" || parts[2].name != "file" {
		t.Fatalf("unexpected order %+v", parts)
	}
	if parts[2].contentType != "application/octet-stream" {
		t.Errorf("expected default file content type, got %q", parts[2].contentType)
	}
}

func TestEscapeQuotes(t *testing.T) {
	if got := escapeQuotes(`a"b\c`); got != `a\"b\\c` {
		t.Errorf("unexpected %q", got)
	}
}
