package service

import (
	"fmt"

	"github.com/mssola/useragent"
)

// deviceName renders a short human-readable label for the client that opened
// a session, shown alongside login audit events.
func deviceName(userAgentHeader string) string {
	if userAgentHeader == "" {
		return "unknown device"
	}
	ua := useragent.New(userAgentHeader)
	browser, _ := ua.Browser()
	os := ua.OS()
	switch {
	case browser != "" && os != "":
		return fmt.Sprintf("%s on %s", browser, os)
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "unknown device"
	}
}
