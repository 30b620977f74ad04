// Package testutil provides fixtures shared by the diallog test suites:
// throwaway RSA keys and service-account files, a fake OAuth2 token
// endpoint, PCM WAV builders, and an in-memory filesystem helper.
//
// Usage:
//
//	func TestTranscribe(t *testing.T) {
//	    h := testutil.T(t)
//	    fs := h.MemFs()
//	    h.WriteFile(fs, "/calls/a.wav", testutil.WAV(16000, 1, 16000))
//	    ts := h.TokenServer(testutil.TokenServerConfig{})
//	    ...
//	}
package testutil
