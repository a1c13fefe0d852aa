package pixiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pixivsave/pkg/errors"
)

func TestValidateProfileURL(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		userID string
		valid  bool
	}{
		{"english profile", "https://www.pixiv.net/en/users/123456/illustrations", "123456", true},
		{"no language segment", "https://www.pixiv.net/users/42/illustrations", "42", true},
		{"surrounding whitespace", "  https://www.pixiv.net/en/users/7/illustrations\n", "7", true},
		{"manga tab", "https://www.pixiv.net/en/users/123456/manga", "", false},
		{"plain http", "http://www.pixiv.net/en/users/123456/illustrations", "", false},
		{"other host", "https://example.com/users/1/illustrations", "", false},
		{"artwork page", "https://www.pixiv.net/en/artworks/99", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ValidateProfileURL(tt.raw)
			if !tt.valid {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrorTypeValidation))
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.userID, p.UserID)
		})
	}
}

func TestIsArtworkLink(t *testing.T) {
	assert.True(t, IsArtworkLink("https://www.pixiv.net/en/artworks/118000001"))
	assert.False(t, IsArtworkLink("https://www.pixiv.net/en/users/1/bookmarks"))
	assert.False(t, IsArtworkLink(""))
}

func TestListingPageURL(t *testing.T) {
	base := "https://www.pixiv.net/en/users/1/illustrations"
	assert.Equal(t, base, ListingPageURL(base, 1))
	assert.Equal(t, base+"?p=2", ListingPageURL(base, 2))
	assert.Equal(t, base+"?p=10", ListingPageURL(base, 10))
	assert.Equal(t, base+"?tag=x&p=3", ListingPageURL(base+"?tag=x", 3))
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total    int
		expected int
	}{
		{0, 0},
		{-3, 0},
		{1, 1},
		{48, 1},
		{49, 2},
		{96, 2},
		{97, 3},
		{1234, 26},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, PageCount(tt.total), "total %d", tt.total)
	}
}

func TestParseWorksCount(t *testing.T) {
	n, err := ParseWorksCount("1,234")
	require.NoError(t, err)
	assert.Equal(t, 1234, n)

	n, err = ParseWorksCount(" 97 ")
	require.NoError(t, err)
	assert.Equal(t, 97, n)

	_, err = ParseWorksCount("many")
	assert.True(t, errors.Is(err, errors.ErrorTypeParsing))
}

func TestIsMasterImage(t *testing.T) {
	master := "https://i.pximg.net/img-master/img/2024/01/01/00/00/00/123_p0_master1200.jpg"

	assert.True(t, IsMasterImage("Image", master))
	assert.True(t, IsMasterImage("image", master))
	assert.False(t, IsMasterImage("Fetch", master))
	assert.False(t, IsMasterImage("Image", "https://i.pximg.net/c/250x250_80_a2/img-master/img/123_p0_square1200.jpg"))
	assert.False(t, IsMasterImage("Image", "https://s.pximg.net/common/images/logo.png"))
}

func TestExtractImageName(t *testing.T) {
	tests := []struct {
		url        string
		identifier string
		fileName   string
	}{
		{
			"https://i.pximg.net/img-master/img/2024/01/01/00/00/00/123_p0_master1200.jpg",
			"123_p0_master1200", "123_p0_master1200.jpg",
		},
		{
			"https://i.pximg.net/img-master/img/2024/01/01/00/00/00/123_p1_master1200.png?v=2",
			"123_p1_master1200", "123_p1_master1200.png",
		},
	}
	for _, tt := range tests {
		id, name, err := ExtractImageName(tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.identifier, id)
		assert.Equal(t, tt.fileName, name)
	}

	_, _, err := ExtractImageName("https://i.pximg.net/img-master/img/2024/01/01/")
	assert.True(t, errors.Is(err, errors.ErrorTypeParsing))
}

func TestLinkSet(t *testing.T) {
	s := NewLinkSet()
	assert.Equal(t, 2, s.Add("a", "b"))
	assert.Equal(t, 1, s.Add("b", "c", "c"))
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("c"))
	assert.False(t, s.Contains("d"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Links())

	links := s.Links()
	links[0] = "mutated"
	assert.True(t, s.Contains("a"))
	assert.Equal(t, "a", s.Links()[0])
}
