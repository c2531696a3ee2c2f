package respond

import (
	"regexp"
)

// Patterns are applied in order, most specific first.
var secretPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-(?:proj-)?[a-zA-Z0-9_]{10,}`), "sk-****"},
	{regexp.MustCompile(`gsk_[a-zA-Z0-9]{10,}`), "gsk_****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`), "AIza****"},
	{regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9._~+/=-]{8,}`), "${1}****"},
	{regexp.MustCompile(`([?&](?:key|api_key)=)[^&\s]+`), "${1}****"},
	{regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`), "://$1:****@"},
}

// SanitizeError returns err's message with provider API keys, bearer tokens,
// key query parameters and URL passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks secrets in an arbitrary message.
func SanitizeString(msg string) string {
	for _, p := range secretPatterns {
		msg = p.re.ReplaceAllString(msg, p.repl)
	}
	return msg
}
