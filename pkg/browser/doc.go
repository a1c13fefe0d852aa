// Package browser drives a controlled Chromium instance over the Chrome
// DevTools Protocol.
//
// A Session owns one browser and one page target. Callers navigate it,
// take HTML snapshots queried with goquery, and subscribe to network
// responses whose bodies are fetched in the background. Drain waits for
// those background fetches before the session is closed.
package browser
