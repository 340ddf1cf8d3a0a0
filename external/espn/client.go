package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pickemhq/schedule-sync/internal/platform/logging"
	"github.com/pickemhq/schedule-sync/internal/platform/resilience"
	"github.com/pickemhq/schedule-sync/internal/usecase"
)

const (
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 6 << 20
	maxListPages   = 200
)

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the provider's public core API. Listings come back as pages
// of $ref links; every resource behind a link is one more GET.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchLeague(ctx context.Context, ref string) (usecase.ExternalLeague, error) {
	ref = normalizeRefScheme(ref)
	if ref == "" {
		return usecase.ExternalLeague{}, fmt.Errorf("league ref must not be empty")
	}

	var resource leagueResource
	if err := c.doJSON(ctx, ref, &resource); err != nil {
		return usecase.ExternalLeague{}, crerr.Mark(fmt.Errorf("fetch league resource: %w", err), usecase.ErrFetchFailed)
	}

	return usecase.ExternalLeague{
		ExternalID: strings.TrimSpace(resource.ID),
		Name:       firstNonEmpty(resource.DisplayName, resource.Name),
		Slug:       strings.TrimSpace(resource.Slug),
		SeasonsRef: normalizeRefScheme(resource.Seasons.Ref),
	}, nil
}

func (c *Client) FetchSeasons(ctx context.Context, listingURL string) ([]usecase.ExternalSeason, error) {
	refs, err := c.listRefs(ctx, listingURL)
	if err != nil {
		return nil, crerr.Mark(fmt.Errorf("list seasons: %w", err), usecase.ErrFetchFailed)
	}

	out := make([]usecase.ExternalSeason, 0, len(refs))
	for _, ref := range refs {
		var resource seasonResource
		if err := c.doJSON(ctx, ref, &resource); err != nil {
			return nil, crerr.Mark(fmt.Errorf("fetch season resource %s: %w", ref, err), usecase.ErrFetchFailed)
		}
		out = append(out, mapSeasonResource(ref, resource))
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, listingURL string) ([]usecase.ExternalTeam, error) {
	refs, err := c.listRefs(ctx, listingURL)
	if err != nil {
		return nil, crerr.Mark(fmt.Errorf("list teams: %w", err), usecase.ErrFetchFailed)
	}

	out := make([]usecase.ExternalTeam, 0, len(refs))
	for _, ref := range refs {
		var resource teamResource
		if err := c.doJSON(ctx, ref, &resource); err != nil {
			return nil, crerr.Mark(fmt.Errorf("fetch team resource %s: %w", ref, err), usecase.ErrFetchFailed)
		}
		out = append(out, mapTeamResource(ref, resource))
	}
	return out, nil
}

// listRefs walks a paginated listing and returns every item's normalized
// resource link. The walk issues exactly pageCount listing requests.
func (c *Client) listRefs(ctx context.Context, listingURL string) ([]string, error) {
	listingURL = normalizeRefScheme(listingURL)
	if listingURL == "" {
		return nil, fmt.Errorf("listing url must not be empty")
	}

	refs := make([]string, 0, 32)
	for page := 1; ; page++ {
		if page > maxListPages {
			return nil, fmt.Errorf("listing exceeded %d pages: %s", maxListPages, listingURL)
		}

		pageURL, err := withPageParam(listingURL, page)
		if err != nil {
			return nil, fmt.Errorf("build page url: %w", err)
		}

		var envelope pageEnvelope
		if err := c.doJSON(ctx, pageURL, &envelope); err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if envelope.PageIndex < 1 || envelope.PageCount < 1 {
			return nil, fmt.Errorf("malformed listing envelope page=%d pageIndex=%d pageCount=%d", page, envelope.PageIndex, envelope.PageCount)
		}

		for _, item := range envelope.Items {
			ref := normalizeRefScheme(item.Ref)
			if ref == "" {
				continue
			}
			refs = append(refs, ref)
		}

		if envelope.PageIndex >= envelope.PageCount {
			return refs, nil
		}
	}
}

func withPageParam(listingURL string, page int) (string, error) {
	parsed, err := url.Parse(listingURL)
	if err != nil {
		return "", err
	}
	values := parsed.Query()
	values.Set("page", strconv.Itoa(page))
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func (c *Client) doJSON(ctx context.Context, fullURL string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: schedule provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errESPNTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errESPNTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	value := strings.TrimSpace(string(raw))
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}

func mapSeasonResource(ref string, resource seasonResource) usecase.ExternalSeason {
	teamsRef := normalizeRefScheme(resource.Teams.Ref)
	metadata := map[string]any{
		"ref": ref,
	}
	if teamsRef != "" {
		metadata["teamsRef"] = teamsRef
	}

	return usecase.ExternalSeason{
		ExternalID: strconv.Itoa(resource.Year),
		Name:       strings.TrimSpace(resource.DisplayName),
		Year:       resource.Year,
		StartDate:  parseResourceDate(resource.StartDate),
		EndDate:    parseResourceDate(resource.EndDate),
		Metadata:   metadata,
	}
}

func mapTeamResource(ref string, resource teamResource) usecase.ExternalTeam {
	metadata := map[string]any{
		"ref": ref,
	}
	if uid := strings.TrimSpace(resource.UID); uid != "" {
		metadata["uid"] = uid
	}
	if slug := strings.TrimSpace(resource.Slug); slug != "" {
		metadata["slug"] = slug
	}

	return usecase.ExternalTeam{
		ExternalID:   strings.TrimSpace(resource.ID),
		Name:         strings.TrimSpace(resource.Name),
		Location:     strings.TrimSpace(resource.Location),
		Abbreviation: strings.TrimSpace(resource.Abbreviation),
		DisplayName:  strings.TrimSpace(resource.DisplayName),
		LogoURL:      resource.logoAt(0),
		AltLogoURL:   resource.logoAt(1),
		Metadata:     metadata,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
