package pixiv

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"pixivsave/pkg/errors"
)

// PageSize is the number of works shown per listing page
const PageSize = 48

var profileURLPattern = regexp.MustCompile(`^(https://www\.pixiv.+)users/([^/?#]+)/illustrations`)

// Profile is an accepted artist profile URL
type Profile struct {
	URL    string
	UserID string
}

// ValidateProfileURL accepts only an artist's illustrations tab URL
func ValidateProfileURL(raw string) (*Profile, error) {
	raw = strings.TrimSpace(raw)
	m := profileURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, errors.Validation("expected https://www.pixiv.net/<lang>/users/<id>/illustrations", raw)
	}
	return &Profile{URL: raw, UserID: m[2]}, nil
}

// IsArtworkLink reports whether an anchor target is a gallery item
func IsArtworkLink(href string) bool {
	return strings.Contains(href, "artworks")
}

// ListingPageURL returns the URL of listing page n, page 1 being base itself
func ListingPageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sp=%d", base, sep, page)
}

// PageCount returns how many listing pages hold total works
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(PageSize)))
}

// ParseWorksCount parses the displayed works total, e.g. "1,234"
func ParseWorksCount(text string) (int, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, strings.TrimSpace(text))

	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, errors.Parsing(fmt.Sprintf("invalid works count %q", text), "", err)
	}
	if n < 0 {
		return 0, errors.Parsing(fmt.Sprintf("negative works count %q", text), "", nil)
	}
	return n, nil
}
