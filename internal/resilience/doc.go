// Package resilience groups the fault tolerance helpers used around every
// outbound call the summarizer makes: YouTube page and caption requests,
// article downloads and LLM provider APIs.
//
//   - circuitbreaker wraps sony/gobreaker with per-upstream presets
//   - retry runs an operation with exponential backoff and jitter
//
// Retry wraps the breaker, so each attempt is one breaker request and an
// open circuit ends the retry loop early:
//
//	cb := circuitbreaker.New(circuitbreaker.LLMConfig("groq"))
//	text, err := retry.Do(ctx, retry.AIAPIConfig(), func() (string, error) {
//	    return circuitbreaker.Run(cb, func() (string, error) {
//	        return client.Complete(ctx, prompt)
//	    })
//	})
package resilience
