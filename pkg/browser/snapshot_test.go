package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
	<ul>
		<li><a href="/en/artworks/101">one</a></li>
		<li><a href="https://www.pixiv.net/en/artworks/102">two</a></li>
		<li><a href="bookmarks">bookmarks</a></li>
		<li><a href="javascript:void(0)">noop</a></li>
		<li><a>no href</a></li>
	</ul>
</body></html>`

func TestSnapshotLinks(t *testing.T) {
	snap, err := NewSnapshot("https://www.pixiv.net/en/users/5/illustrations", listingHTML)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.pixiv.net/en/artworks/101",
		"https://www.pixiv.net/en/artworks/102",
		"https://www.pixiv.net/en/users/5/bookmarks",
	}, snap.Links())
}

func TestSnapshotHonoursBaseHref(t *testing.T) {
	html := `<html><head><base href="https://www.pixiv.net/jp/"></head>
		<body><a href="artworks/7">seven</a></body></html>`

	snap, err := NewSnapshot("https://www.pixiv.net/en/users/5/illustrations", html)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.pixiv.net/jp/artworks/7"}, snap.Links())
}

func TestSnapshotInvalidLocation(t *testing.T) {
	_, err := NewSnapshot("://bad", "<html></html>")
	assert.Error(t, err)
}

func TestSnapshotNoAnchors(t *testing.T) {
	snap, err := NewSnapshot("https://www.pixiv.net/", "<html><body><p>empty</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, snap.Links())
}
