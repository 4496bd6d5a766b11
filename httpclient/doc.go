// Package httpclient provides the HTTP transport used by llmstream backends.
//
// It owns the protocol concerns every backend shares: base URL resolution,
// JSON body encoding, authentication headers, per-client timeouts, and
// classification of failures into typed errors. Cancellation of the caller's
// context is reported as ErrCodeCanceled so backends can treat it as a
// silent stop rather than a network failure.
//
// A request is sent exactly once; there is no retry layer.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.clarifai.com",
//	    Timeout: 60 * time.Second,
//	    Auth:    httpclient.KeyAuth(pat),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/v2/users/u/apps/a/models/m/outputs",
//	    Body:   payload,
//	})
package httpclient
