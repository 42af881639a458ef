package miniapp

import "strings"

// Config describes the published mini app. Every URL the server hands out is
// derived from AppURL.
type Config struct {
	AppURL           string
	Name             string
	Description      string
	ButtonTitle      string
	SplashColor      string
	RedirectURIs     []string
	AccountHeader    string
	AccountPayload   string
	AccountSignature string
}

func DefaultConfig() Config {
	return Config{
		AppURL:       "https://spermgame.vercel.app",
		Name:         "Sperm Game",
		Description:  "The most epic sperm survival game on Farcaster!",
		ButtonTitle:  "Check this out",
		SplashColor:  "#eeccff",
		RedirectURIs: []string{"https://spermfarcaster-app.vercel.app"},
	}
}

func (c Config) base() string {
	return strings.TrimRight(c.AppURL, "/")
}

func (c Config) IconURL() string        { return c.base() + "/icon.png" }
func (c Config) ImageURL() string       { return c.base() + "/image.png" }
func (c Config) SplashURL() string      { return c.base() + "/splash.png" }
func (c Config) MiniAppURL() string     { return c.base() + "/mini-app" }
func (c Config) WebhookURL() string     { return c.base() + "/api/webhook" }
func (c Config) FramesURL() string      { return c.base() + "/api/frames" }
func (c Config) LeaderboardURL() string { return c.base() + "/leaderboard" }
