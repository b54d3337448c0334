// Command agent is the field reporter: it signs in as a guard, posts the device
// position to the patrol server on a fixed cadence, and flips the guard offline
// on shutdown.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patrol/internal/domain/service"
	"patrol/internal/infra/location"

	"github.com/pkg/errors"
)

const requestTimeout = 10 * time.Second

type agentFlags struct {
	server   string
	email    string
	password string
	lat      float64
	lng      float64
	interval time.Duration
}

type agent struct {
	client   *http.Client
	server   string
	source   service.LocationSource
	logger   *slog.Logger
	interval time.Duration

	accessToken  string
	refreshToken string
}

func main() {
	flags := parseFlags()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	a := &agent{
		client:   &http.Client{Timeout: requestTimeout},
		server:   flags.server,
		source:   location.NewStaticSource(flags.lat, flags.lng),
		logger:   logger,
		interval: flags.interval,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.login(ctx, flags.email, flags.password); err != nil {
		logger.Error("login failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("signed in, reporting position", slog.Duration("interval", a.interval))

	a.run(ctx)

	// The signal context is done; use a fresh one for teardown.
	teardownCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := a.markOffline(teardownCtx); err != nil {
		logger.Warn("failed to mark offline", slog.Any("error", err))
	}
	if err := a.logout(teardownCtx); err != nil {
		logger.Warn("failed to log out", slog.Any("error", err))
	}
	logger.Info("agent stopped")
}

func parseFlags() agentFlags {
	var flags agentFlags
	flag.StringVar(&flags.server, "server", "http://localhost:8080", "patrol server base URL")
	flag.StringVar(&flags.email, "email", "", "guard email")
	flag.StringVar(&flags.password, "password", "", "guard password")
	flag.Float64Var(&flags.lat, "lat", 0, "device latitude")
	flag.Float64Var(&flags.lng, "lng", 0, "device longitude")
	flag.DurationVar(&flags.interval, "interval", 30*time.Second, "reporting cadence")
	flag.Parse()

	if flags.email == "" || flags.password == "" {
		flag.Usage()
		os.Exit(2)
	}

	return flags
}

// run ticks until the context is cancelled. The first report goes out
// immediately so the guard appears on the map before the first full interval.
func (a *agent) run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.reportOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.reportOnce(ctx)
		}
	}
}

func (a *agent) reportOnce(ctx context.Context) {
	coords, err := a.source.Current(ctx)
	if err != nil {
		a.logger.Warn("no device position", slog.Any("error", err))

		return
	}

	err = a.postLocation(ctx, coords)
	if isUnauthorized(err) {
		// Access token expired mid-session; rotate and retry once.
		if refreshErr := a.refresh(ctx); refreshErr != nil {
			a.logger.Error("token refresh failed", slog.Any("error", refreshErr))

			return
		}
		err = a.postLocation(ctx, coords)
	}
	if err != nil {
		a.logger.Warn("report failed", slog.Any("error", err))

		return
	}

	a.logger.Debug("position reported",
		slog.Float64("latitude", coords.Latitude),
		slog.Float64("longitude", coords.Longitude),
	)
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginData struct {
	Tokens tokenPair `json:"tokens"`
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return "unexpected status " + http.StatusText(e.code) + ": " + e.body
}

func isUnauthorized(err error) bool {
	var se *statusError

	return errors.As(err, &se) && se.code == http.StatusUnauthorized
}

func (a *agent) login(ctx context.Context, email, password string) error {
	data, err := a.post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return err
	}

	var out loginData
	if err := json.Unmarshal(data, &out); err != nil {
		return errors.Wrap(err, "decode login response")
	}
	a.accessToken = out.Tokens.AccessToken
	a.refreshToken = out.Tokens.RefreshToken

	return nil
}

func (a *agent) refresh(ctx context.Context) error {
	data, err := a.post(ctx, "/auth/refresh", map[string]string{
		"refresh_token": a.refreshToken,
	}, false)
	if err != nil {
		return err
	}

	var out tokenPair
	if err := json.Unmarshal(data, &out); err != nil {
		return errors.Wrap(err, "decode refresh response")
	}
	a.accessToken = out.AccessToken
	a.refreshToken = out.RefreshToken

	return nil
}

func (a *agent) logout(ctx context.Context) error {
	if a.refreshToken == "" {
		return nil
	}
	_, err := a.post(ctx, "/auth/logout", map[string]string{
		"refresh_token": a.refreshToken,
	}, false)

	return err
}

func (a *agent) postLocation(ctx context.Context, coords *service.Coordinates) error {
	_, err := a.post(ctx, "/guard/location", map[string]float64{
		"latitude":  coords.Latitude,
		"longitude": coords.Longitude,
	}, true)

	return err
}

func (a *agent) markOffline(ctx context.Context) error {
	_, err := a.post(ctx, "/guard/offline", struct{}{}, true)

	return err
}

// post sends a JSON body and returns the envelope's data payload.
func (a *agent) post(ctx context.Context, path string, body any, authed bool) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.server+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.accessToken)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: string(raw)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrapf(err, "decode %s response", path)
	}

	return env.Data, nil
}
