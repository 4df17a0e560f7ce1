package common

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

func HomeExpand(path string) (string, error) {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// MentionHTML returns an HTML mention link for a Telegram user.
func MentionHTML(userID int64, name string) string {
	if name == "" {
		name = fmt.Sprintf("User %v", userID)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%v">%v</a>`, userID, html.EscapeString(name))
}

var durationPatterns = []struct {
	re         *regexp.Regexp
	multiplier int
}{
	{regexp.MustCompile(`^(\d+)\s*s(?:ec(?:ond)?s?)?$`), 1},
	{regexp.MustCompile(`^(\d+)\s*m(?:in(?:ute)?s?)?$`), 60},
	{regexp.MustCompile(`^(\d+)\s*h(?:(?:ou)?rs?)?$`), 3600},
	{regexp.MustCompile(`^(\d+)\s*d(?:ays?)?$`), 86400},
	{regexp.MustCompile(`^(\d+)$`), 60},
}

// ParseDuration parses strings like "30s", "5m", "1h", "2d" into seconds.
// A bare number is taken as minutes. Returns 0 if the string is invalid.
func ParseDuration(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	for _, p := range durationPatterns {
		if m := p.re.FindStringSubmatch(s); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 0
			}
			return n * p.multiplier
		}
	}
	return 0
}

func FormatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%v seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%v minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%v hours", seconds/3600)
	default:
		return fmt.Sprintf("%v days", seconds/86400)
	}
}
