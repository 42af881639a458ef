package miniapp

import (
	"fmt"
	"net/url"
	"strings"
)

const composeURL = "https://warpcast.com/~/compose"

// ShareText is the cast posted when a player shares a score
func ShareText(score int, appURL string) string {
	return fmt.Sprintf("🧠 I just scored %d points in Sperm Survival! Come play and beat me: %s", score, appURL)
}

// ShareURL returns a compose link prefilled with ShareText
func ShareURL(score int, appURL string) string {
	// compose expects %20 rather than '+' for spaces
	text := strings.ReplaceAll(url.QueryEscape(ShareText(score, appURL)), "+", "%20")
	return composeURL + "?text=" + text
}
