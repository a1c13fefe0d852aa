package pixiv

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"pixivsave/pkg/errors"
)

// MasterImagePrefix is where pixiv serves master resolution images
const MasterImagePrefix = "https://i.pximg.net/img-master"

var imageNamePattern = regexp.MustCompile(`(?i)([^/.]+)\.(jpg|jpeg|png|gif|webp)`)

// IsMasterImage reports whether a response should be saved
func IsMasterImage(resourceType, rawURL string) bool {
	return strings.EqualFold(resourceType, "Image") && strings.HasPrefix(rawURL, MasterImagePrefix)
}

// ExtractImageName returns the identifier and file name for an image URL.
// The file name is the full match, e.g. "12345_p0_master1200.jpg", and the
// identifier is the same without its extension.
func ExtractImageName(rawURL string) (identifier, fileName string, err error) {
	p := rawURL
	if u, perr := url.Parse(rawURL); perr == nil && u.Path != "" {
		p = u.Path
	}

	m := imageNamePattern.FindStringSubmatch(path.Base(p))
	if m == nil {
		return "", "", errors.Parsing("no image file name in url", rawURL, nil)
	}
	return m[1], m[0], nil
}
