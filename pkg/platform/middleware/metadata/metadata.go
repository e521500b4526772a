// Package metadata reads caller details from requests for access logs.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// ClientIPFromRequest returns the caller's IP. The presentation layer may sit
// behind a local proxy, so X-Forwarded-For and X-Real-IP win over RemoteAddr.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// UserAgent returns the caller's User-Agent, trimmed to a loggable length.
func UserAgent(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if len(ua) > 256 {
		return ua[:256]
	}
	return ua
}

// DeviceLabel summarises the User-Agent as "browser/os", with a "bot" or
// "mobile" prefix where it applies. An empty header yields "unknown".
func DeviceLabel(r *http.Request) string {
	raw := r.Header.Get("User-Agent")
	if raw == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	if ua.Bot() {
		name, _ := ua.Browser()
		return "bot:" + name
	}
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "unknown"
	}
	platform := ua.OS()
	if platform == "" {
		platform = "unknown"
	}
	label := browser + "/" + platform
	if ua.Mobile() {
		return "mobile:" + label
	}
	return label
}
