package extract

import "time"

// Config holds configuration for the calendar extractor.
type Config struct {
	// Source selects how the calendar page is obtained (http, chrome, file).
	Source string `mapstructure:"source" default:"chrome"`
	// URL is the calendar page.
	URL string `mapstructure:"url" default:"https://exp-t.jp/e/event/calendar"`
	// File is read instead of URL when Source is "file".
	File string `mapstructure:"file" default:""`
	// UserAgent is sent by the http source.
	UserAgent string `mapstructure:"user_agent" default:"seminar-sync/1.0"`
	// Cookie is sent verbatim by the http and chrome sources, for pages that
	// need an existing session.
	Cookie string `mapstructure:"cookie" default:""`
	// WaitSelector is the element the chrome source waits for before reading the DOM.
	WaitSelector string `mapstructure:"wait_selector" default:".mb30"`
	// ChromePath overrides the browser executable.
	ChromePath string `mapstructure:"chrome_path" default:""`
	// TimeoutSeconds bounds one page fetch.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}

const (
	SourceHTTP   = "http"
	SourceChrome = "chrome"
	SourceFile   = "file"
)

// Timeout returns the page fetch timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
