package identity

import (
	"fmt"

	"github.com/mssola/useragent"
)

// DeviceName renders a short human-readable device description from a raw
// User-Agent string, for session summaries ("Chrome on Mac OS X").
func DeviceName(rawUserAgent string) string {
	if rawUserAgent == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUserAgent)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	osName := ua.OSInfo().Name
	if osName == "" {
		osName = ua.Platform()
	}
	if osName == "" {
		osName = "Unknown OS"
	}

	if ua.Mobile() && ua.Platform() != "" {
		osName = ua.Platform()
	}

	return fmt.Sprintf("%s on %s", browser, osName)
}
