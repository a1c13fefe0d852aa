// Package pixiv holds the site rules pixivsave depends on: which profile
// URLs are accepted, which anchors are artworks, how listing pages are
// numbered and which network responses carry master images.
//
// Nothing in this package touches the network. The selectors and URL
// shapes mirror the site layout at the time of writing; when pixiv
// changes its markup this is the only package that should need edits.
package pixiv
