package recommend

import (
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \\t]*\\r?\\n?(.*?)```")

// StripCodeFence removes markdown code-fence wrapping that models like to put
// around JSON replies. Bare text is returned trimmed and otherwise untouched.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "```") {
		return text
	}

	if matches := codeFenceRe.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// Opening fence without a closing one (truncated reply)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			return strings.TrimSpace(text[idx+1:])
		}
		return strings.TrimSpace(strings.TrimLeft(text, "`"))
	}

	return text
}
