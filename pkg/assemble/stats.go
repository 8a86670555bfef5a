package assemble

import "regexp"

// MaxReportableSize is the artifact size above which the token estimate
// is skipped and a size warning is reported instead.
const MaxReportableSize = 10 * 1024 * 1024

// tokenPattern approximates LLM tokenization: runs of word characters
// count as one token, every other non-space character as one each.
var tokenPattern = regexp.MustCompile(`\w+|[^\w\s]`)

// EstimateTokens returns a rough token count for the artifact body. The
// estimate tracks the GPT-style tokenizers closely enough for sizing a
// prompt; it is not exact.
func EstimateTokens(data []byte) int {
	return len(tokenPattern.FindAll(data, -1))
}
