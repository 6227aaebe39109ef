// Package cocktaildb is an HTTP client for the public cocktail database API.
// It implements services.CocktailProvider and services.RandomProvider.
package cocktaildb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

const maxBodyBytes = 4 << 20

// Client talks to the cocktail database over HTTP.
// Every request goes through a circuit breaker so a failing upstream is skipped quickly.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

var (
	_ services.CocktailProvider = (*Client)(nil)
	_ services.RandomProvider   = (*Client)(nil)
)

// BreakerSettings configures the circuit breaker.
type BreakerSettings struct {
	ConsecutiveFailures uint32        // Failures in a row that open the breaker
	OpenTimeout         time.Duration // Time spent open before a trial request
}

type options struct {
	httpClient *http.Client
	logger     *zap.Logger
	breaker    BreakerSettings
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the HTTP client. Default has a 10s timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBreaker overrides the circuit breaker settings.
func WithBreaker(settings BreakerSettings) Option {
	return func(o *options) {
		if settings.ConsecutiveFailures > 0 {
			o.breaker.ConsecutiveFailures = settings.ConsecutiveFailures
		}
		if settings.OpenTimeout > 0 {
			o.breaker.OpenTimeout = settings.OpenTimeout
		}
	}
}

// NewClient creates a client for the API rooted at baseURL,
// e.g. https://www.thecocktaildb.com/api/json/v1/1.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, internalErrors.NewValidationError("base_url", fmt.Sprintf("'%s' is not an absolute URL", baseURL))
	}

	o := &options{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
		breaker:    BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger.With(zap.String("module", "cocktaildb"))
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "cocktaildb",
		Timeout: o.breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.breaker.ConsecutiveFailures
		},
		// An undecodable body says nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, internalErrors.ErrParseFailure)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    u,
		httpClient: o.httpClient,
		breaker:    breaker,
		logger:     logger,
	}, nil
}

// SearchByName returns drinks whose name matches query.
func (c *Client) SearchByName(ctx context.Context, query string) ([]model.CocktailSummary, error) {
	drinks, err := c.get(ctx, "search.php", url.Values{"s": {query}})
	if err != nil {
		return nil, err
	}
	return toSummaries(drinks), nil
}

// FilterByIngredient returns drinks that use ingredient.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]model.CocktailSummary, error) {
	drinks, err := c.get(ctx, "filter.php", url.Values{"i": {ingredient}})
	if err != nil {
		return nil, err
	}
	return toSummaries(drinks), nil
}

// GetDetailsByID returns full details for one drink.
func (c *Client) GetDetailsByID(ctx context.Context, id string) (*model.CocktailDetailed, error) {
	drinks, err := c.get(ctx, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	for _, d := range drinks {
		if details, ok := toDetails(d); ok {
			return details, nil
		}
	}
	return nil, internalErrors.NewDrinkNotFoundError(id)
}

// RandomDrink returns one random drink with full details.
func (c *Client) RandomDrink(ctx context.Context) (*model.CocktailDetailed, error) {
	drinks, err := c.get(ctx, "random.php", nil)
	if err != nil {
		return nil, err
	}
	for _, d := range drinks {
		if details, ok := toDetails(d); ok {
			return details, nil
		}
	}
	return nil, internalErrors.NewDrinkNotFoundError("random")
}

// get performs one GET through the breaker and decodes the drinks array.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]rawDrink, error) {
	u := *c.baseURL
	u.Path = u.Path + "/" + endpoint
	u.RawQuery = params.Encode()
	target := u.String()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, target)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = internalErrors.NewNetworkError(target, 0, err)
		}
		c.logger.Debug("request failed", zap.String("url", target), zap.Error(err))
		return nil, err
	}
	return result.([]rawDrink), nil
}

func (c *Client) fetch(ctx context.Context, target string) ([]rawDrink, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, internalErrors.NewNetworkError(target, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, internalErrors.NewNetworkError(target, 0, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, internalErrors.NewNetworkError(target, 0, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, internalErrors.NewNetworkError(target, resp.StatusCode, nil)
	}

	drinks, err := decodeDrinks(body)
	if err != nil {
		return nil, internalErrors.NewParseError(target, err)
	}
	return drinks, nil
}
