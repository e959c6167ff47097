// Package ai provides the gateway to the hosted generative-completion service.
// The gateway is stateless and performs no retries; callers decide whether to
// re-invoke after a failure.
package ai

import "context"

// Gateway sends a prompt to the generative model and returns its raw text
// output. The output is untrusted and possibly malformed; callers must run it
// through the response normalizer before use.
type Gateway interface {
	Complete(ctx context.Context, promptText string) (string, error)
}
