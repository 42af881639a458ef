package miniapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sperm-survival/game"
)

// ViewSource yields the latest published game snapshot
type ViewSource interface {
	View() *game.View
}

// Server exposes the manifest, the frame endpoints and a read-only view of
// the local game. It holds no game state of its own.
type Server struct {
	cfg   Config
	views ViewSource
	clock func() time.Time
}

func NewServer(cfg Config, views ViewSource) *Server {
	return &Server{
		cfg:   cfg,
		views: views,
		clock: time.Now,
	}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	r.Get("/.well-known/farcaster.json", s.handleManifest)
	r.Route("/api", func(r chi.Router) {
		r.Get("/frames", s.handleFrame)
		r.Post("/frames", s.handleFrameAction)
		r.Post("/webhook", s.handleWebhook)
		r.Get("/state", s.handleState)
		r.Get("/share", s.handleShare)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("miniapp: listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type accountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type frameManifest struct {
	Version               string   `json:"version"`
	Name                  string   `json:"name"`
	IconURL               string   `json:"iconUrl"`
	HomeURL               string   `json:"homeUrl"`
	ImageURL              string   `json:"imageUrl"`
	ButtonTitle           string   `json:"buttonTitle"`
	SplashImageURL        string   `json:"splashImageUrl"`
	SplashBackgroundColor string   `json:"splashBackgroundColor"`
	WebhookURL            string   `json:"webhookUrl"`
	RedirectURIs          []string `json:"redirect_uris,omitempty"`
}

type manifest struct {
	AccountAssociation accountAssociation `json:"accountAssociation"`
	Frame              frameManifest      `json:"frame"`
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, manifest{
		AccountAssociation: accountAssociation{
			Header:    s.cfg.AccountHeader,
			Payload:   s.cfg.AccountPayload,
			Signature: s.cfg.AccountSignature,
		},
		Frame: frameManifest{
			Version:               "1",
			Name:                  s.cfg.Name,
			IconURL:               s.cfg.IconURL(),
			HomeURL:               s.cfg.base(),
			ImageURL:              s.cfg.ImageURL(),
			ButtonTitle:           s.cfg.ButtonTitle,
			SplashImageURL:        s.cfg.SplashURL(),
			SplashBackgroundColor: s.cfg.SplashColor,
			WebhookURL:            s.cfg.WebhookURL(),
			RedirectURIs:          s.cfg.RedirectURIs,
		},
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.writeFrame(w, framePage{
		Image:        s.imageURL(),
		Message:      fmt.Sprintf("This is a Farcaster Frame for the %s game.", s.cfg.Name),
		Target:       s.cfg.MiniAppURL(),
		ButtonText:   "Open",
		SecondButton: "Leaderboard",
	})
}

// handleFrameAction answers a frame button press. Button 1 opens the mini
// app, button 2 the leaderboard.
func (s *Server) handleFrameAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	page := framePage{
		Image:      s.imageURL(),
		Message:    "Let's play!",
		Target:     s.cfg.MiniAppURL(),
		ButtonText: "Open",
	}
	switch r.PostForm.Get("untrustedData.buttonIndex") {
	case "1":
		page.Redirect = true
	case "2":
		page.Target = s.cfg.LeaderboardURL()
		page.Message = "Check out the leaderboard!"
	}
	s.writeFrame(w, page)
}

type frameButton struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	Target string `json:"target"`
}

type frameResponse struct {
	Image   string        `json:"image"`
	Version string        `json:"version"`
	Buttons []frameButton `json:"buttons"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Printf("miniapp: bad webhook body: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	log.Printf("miniapp: webhook %v", body)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Success",
		"frame": frameResponse{
			Image:   s.cfg.ImageURL(),
			Version: "vNext",
			Buttons: []frameButton{{Label: "Open", Action: "link", Target: s.cfg.base()}},
		},
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	v := s.views.View()
	if v == nil {
		s.writeError(w, http.StatusServiceUnavailable, "game not running")
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

// handleShare builds the compose link for ?score=, or for the current
// session when no score is given
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var score int
	if raw := r.URL.Query().Get("score"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "score must be a non-negative integer")
			return
		}
		score = n
	} else if v := s.views.View(); v != nil {
		score = v.Score
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"text": ShareText(score, s.cfg.base()),
		"url":  ShareURL(score, s.cfg.base()),
	})
}

// imageURL busts frame image caches
func (s *Server) imageURL() string {
	return fmt.Sprintf("%s?v=%d", s.cfg.ImageURL(), s.clock().UnixMilli())
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("miniapp: failed to encode response: %v", err)
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

type framePage struct {
	Name         string
	Description  string
	Image        string
	Message      string
	Target       string
	ButtonText   string
	SecondButton string
	PostURL      string
	EmbedURL     string
	Redirect     bool
}

var frameTemplate = template.Must(template.New("frame").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>{{.Name}}</title>
    <meta property="og:title" content="{{.Name}}" />
    <meta property="og:description" content="{{.Description}}" />
    <meta property="og:image" content="{{.Image}}" />
    <meta property="fc:frame" content="vNext" />
    <meta property="fc:frame:image" content="{{.Image}}" />
    <meta property="fc:frame:button:1" content="{{.ButtonText}}" />
    <meta property="fc:frame:button:1:action" content="post_redirect" />
    <meta property="fc:frame:button:1:target" content="{{.Target}}" />
{{- if .SecondButton}}
    <meta property="fc:frame:button:2" content="{{.SecondButton}}" />
{{- end}}
    <meta property="fc:frame:post_url" content="{{.PostURL}}" />
    <meta property="fc:frame:embed" content='{"appId":"spermgame","url":"{{.EmbedURL}}","version":"vNext"}' />
  </head>
  <body>
    <h1>{{.Name}}</h1>
    <p>{{.Message}}</p>
{{- if .Redirect}}
    <script>window.location.href = {{.Target}};</script>
{{- end}}
  </body>
</html>
`))

func (s *Server) writeFrame(w http.ResponseWriter, page framePage) {
	page.Name = s.cfg.Name
	page.Description = s.cfg.Description
	page.PostURL = s.cfg.FramesURL()
	page.EmbedURL = s.cfg.MiniAppURL()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := frameTemplate.Execute(w, page); err != nil {
		log.Printf("miniapp: failed to render frame: %v", err)
	}
}
