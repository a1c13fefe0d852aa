package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowCookieGuide explains how to copy the PHPSESSID cookie out of a browser
func ShowCookieGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)
	lines := []string{
		rule,
		"PIXIV SESSION COOKIE",
		rule,
		"",
		"Without a session pixivsave sees what a logged out visitor sees. R-18",
		"and follower-only works need the PHPSESSID cookie of a logged in browser.",
		"",
		"1. Open https://www.pixiv.net and log in.",
		"2. Open Developer Tools (F12, or Cmd+Option+I on macOS).",
		"3. Chrome/Edge: Application tab > Cookies > https://www.pixiv.net",
		"   Firefox: Storage tab > Cookies > https://www.pixiv.net",
		"4. Copy the value of PHPSESSID. It looks like 12345678_AbCdEf...",
		"",
		"Copy the value only, without quotes or the trailing semicolon.",
		"",
		"The cookie gives full access to your pixiv account. pixivsave keeps it",
		"in the system keychain, or in an encrypted file when no keychain exists.",
		rule,
		"",
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
