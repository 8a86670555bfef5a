package ignore

import (
	"regexp"
	"strings"
)

var (
	doubleStarMiddle   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailing = regexp.MustCompile(`/\*\*$`)
	doubleStarLeading  = regexp.MustCompile(`^\*\*/`)
	singleStar         = regexp.MustCompile(`\*`)
	directoryEnd       = regexp.MustCompile(`/$`)
	rootRelative       = regexp.MustCompile(`^/`)
)

// compilePattern turns one gitignore-style pattern into an anchored regexp.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	expr := escapeSpecial(pattern)
	expr = expandDoubleStars(expr)
	expr = wildcardsToRegex(expr)
	expr = anchor(expr, pattern)
	return regexp.Compile("^" + expr)
}

// escapeSpecial escapes regexp metacharacters except '*', '?', and '/'.
func escapeSpecial(pattern string) string {
	const special = `.+()|^$[]{}`
	for _, ch := range special {
		pattern = strings.ReplaceAll(pattern, string(ch), `\`+string(ch))
	}
	return pattern
}

// expandDoubleStars rewrites '**' segments to their regexp equivalents.
func expandDoubleStars(pattern string) string {
	pattern = doubleStarMiddle.ReplaceAllString(pattern, `(/|/.+/)`)
	pattern = doubleStarTrailing.ReplaceAllString(pattern, `(/.*)?`)
	pattern = doubleStarLeading.ReplaceAllString(pattern, `(.*/)?`)
	return pattern
}

// wildcardsToRegex converts the remaining '*' and '?' wildcards.
func wildcardsToRegex(pattern string) string {
	pattern = singleStar.ReplaceAllString(pattern, `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", ".")
	return pattern
}

// anchor pins the pattern to whole path components. Root-relative patterns
// (leading '/') match from the top only; others match at any depth. The
// leading slash is dropped because matched paths are relative to the
// build root and carry no leading slash themselves.
func anchor(expr, original string) string {
	if directoryEnd.MatchString(original) {
		expr += "(/.*)?$"
	} else {
		expr += "(|/.*)?$"
	}
	if rootRelative.MatchString(original) {
		return strings.TrimPrefix(expr, "/")
	}
	return "(|.*/)" + expr
}
