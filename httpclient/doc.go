// Package httpclient is the HTTP layer shared by the token exchange and both
// speech engines. It encodes JSON, form, and multipart bodies, applies
// per-request auth and timeouts, and classifies failures into *Error.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://speech.googleapis.com",
//	    Timeout: 120 * time.Second,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method:  http.MethodPost,
//	    Path:    "v1/speech:recognize",
//	    Body:    recognizeRequest,
//	    Auth:    httpclient.BearerAuth(token),
//	    Timeout: 10 * time.Second,
//	})
//
// A non-2xx response is returned together with an *Error so callers can
// inspect both the status class and the body.
package httpclient
