package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-clockin/internal/domain"
	"go-clockin/internal/shared/contextutil"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxDiagnosticBody = 4096

//go:generate mockgen -source=apiclient.go -destination=mock/apiclient_mock.go -package=mock
type Client interface {
	Me(ctx context.Context) (domain.UserProfile, error)
	Clock(ctx context.Context, req domain.ClockRequest) (domain.ClockResult, error)
}

// HTTPError is returned for any non-2xx response. Diagnostic holds the body
// text when it could be read and was not blank.
type HTTPError struct {
	StatusCode int
	Diagnostic *string
}

func (e *HTTPError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if e.Diagnostic != nil {
		msg = *e.Diagnostic
	}
	return fmt.Sprintf("apiclient: http %d: %s", e.StatusCode, msg)
}

type Option func(*client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *client) { c.logger = l.Named("apiclient") }
}

type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *zap.Logger
}

func New(baseURL, token string, timeout time.Duration, opts ...Option) (Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("apiclient: missing base url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("apiclient: invalid base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("apiclient: invalid base url scheme")
	}
	if u.Host == "" {
		return nil, errors.New("apiclient: invalid base url host")
	}

	c := &client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		logger:     zap.L().Named("apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) Me(ctx context.Context) (domain.UserProfile, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return domain.UserProfile{}, err
	}
	if err := c.validate.Struct(out); err != nil {
		return domain.UserProfile{}, fmt.Errorf("apiclient: invalid profile response: %w", err)
	}

	profile := domain.UserProfile{
		Username:         out.Username,
		AllowedLocations: make([]domain.WorkLocation, 0, len(out.AllowedLocations)),
	}
	for _, l := range out.AllowedLocations {
		profile.AllowedLocations = append(profile.AllowedLocations, domain.WorkLocation{
			ID:        l.ID,
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			RadiusM:   l.RadiusM,
		})
	}
	return profile, nil
}

func (c *client) Clock(ctx context.Context, req domain.ClockRequest) (domain.ClockResult, error) {
	lat, lon := req.Latitude, req.Longitude
	body := ClockRequest{
		Latitude:       &lat,
		Longitude:      &lon,
		WorkLocationID: req.WorkLocationID,
	}
	if req.Type != nil {
		t := string(*req.Type)
		body.Type = &t
	}

	var out ClockResponse
	if err := c.do(ctx, http.MethodPost, "/clock", body, &out); err != nil {
		return domain.ClockResult{}, err
	}
	if err := c.validate.Struct(out); err != nil {
		return domain.ClockResult{}, fmt.Errorf("apiclient: invalid clock response: %w", err)
	}

	return domain.ClockResult{
		Type:           out.Type,
		Timestamp:      out.Timestamp,
		DistanceM:      out.DistanceM,
		WithinGeofence: out.WithinGeofence,
	}, nil
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rid := contextutil.GetRequestID(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	req.Header.Set("X-Request-ID", rid)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("request_id", rid),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode/100 != 2 {
		return readHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode %s response: %w", path, err)
	}
	return nil
}

// readHTTPError never fails: an unreadable or blank body only means there is
// no diagnostic.
func readHTTPError(resp *http.Response) *HTTPError {
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Diagnostic: ReadDiagnostic(resp.Body),
	}
}

func ReadDiagnostic(r io.Reader) *string {
	if r == nil {
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(r, maxDiagnosticBody))
	if err != nil {
		return nil
	}
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return nil
	}
	return &msg
}

// Describe returns the text of the underlying failure, without the method
// and URL prefix net/http adds to transport errors.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}
