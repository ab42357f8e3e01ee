// Package llm is the model gateway: it turns a formatted prompt into
// the raw text a language model returned. Everything above this
// boundary treats the response as untrusted free-form text.
package llm

import "context"

// Request describes one completion call.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
}

// Client is the model invocation boundary. Implementations may fail
// with transport errors (network, auth, rate limit); callers are
// expected to convert failures into safe fallback values rather than
// propagating them.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
