package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hyperjump/reelmatch/internal/config"
	"github.com/hyperjump/reelmatch/internal/metrics"
	"github.com/hyperjump/reelmatch/internal/models"
)

const (
	breakerName      = "tmdb"
	youtubeEmbedBase = "https://www.youtube.com/embed/"
	maxResponseBytes = 4 << 20
	trendingLimit    = 10
	trendingTTL      = time.Hour
)

// tmdbMovie is the subset of the TMDB movie payload used for display.
type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	Runtime     int     `json:"runtime"`
	Tagline     string  `json:"tagline"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Images struct {
		Posters []tmdbImage `json:"posters"`
	} `json:"images"`
	Credits struct {
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
	Videos struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
}

type tmdbImage struct {
	FilePath string `json:"file_path"`
}

type tmdbPerson struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Biography   string `json:"biography"`
	ProfilePath string `json:"profile_path"`
	Images      struct {
		Profiles []tmdbImage `json:"profiles"`
	} `json:"images"`
	MovieCredits struct {
		Cast []struct {
			ID          int     `json:"id"`
			Title       string  `json:"title"`
			Character   string  `json:"character"`
			ReleaseDate string  `json:"release_date"`
			PosterPath  string  `json:"poster_path"`
			Popularity  float64 `json:"popularity"`
		} `json:"cast"`
	} `json:"movie_credits"`
}

type tmdbTrending struct {
	Results []struct {
		ID         int    `json:"id"`
		Title      string `json:"title"`
		PosterPath string `json:"poster_path"`
	} `json:"results"`
}

// TMDBClient fetches movie and person details from The Movie Database API. Requests are
// rate limited client-side, guarded by a circuit breaker, and successful lookups are cached.
type TMDBClient struct {
	baseURL     *url.URL
	imageBase   string
	placeholder string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]byte]
	movies      *DetailCache[*models.MovieDetail]
	people      *DetailCache[*models.PersonDetail]
	logger      *zap.Logger

	trendingMu      sync.Mutex
	trending        []models.MovieSummary
	trendingFetched time.Time
	now             func() time.Time
}

// ClientOption configures a TMDBClient.
type ClientOption func(*TMDBClient)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(t *TMDBClient) { t.httpClient = c }
}

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) ClientOption {
	return func(t *TMDBClient) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTMDBClient creates a client from cfg.
func NewTMDBClient(cfg config.MetadataConfig, opts ...ClientOption) (*TMDBClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata base URL: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	c := &TMDBClient{
		baseURL:     base,
		imageBase:   cfg.ImageBaseURL,
		placeholder: cfg.PlaceholderImage,
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     newLimiter(cfg.RequestsPerSec, cfg.Burst),
		movies:      NewDetailCache[*models.MovieDetail](cfg.CacheSize),
		people:      NewDetailCache[*models.PersonDetail](cfg.CacheSize),
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A missing movie or person is an answer, not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrMovieNotFound) ||
				errors.Is(err, ErrPersonNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("metadata circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return c, nil
}

func newLimiter(perSec float64, burst int) *rate.Limiter {
	limit := rate.Limit(perSec)
	if perSec <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// BreakerState reports the circuit breaker state ("closed", "half-open" or "open").
func (c *TMDBClient) BreakerState() string {
	return c.breaker.State().String()
}

// MovieDetail returns display detail for id.
func (c *TMDBClient) MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	if d, ok := c.movies.Get(id); ok {
		metrics.RecordProviderRequest("cache_hit", 0)
		return d, nil
	}
	var m tmdbMovie
	params := url.Values{"append_to_response": {"videos,images,credits"}}
	if err := c.call(ctx, &m, fmt.Errorf("%w: %d", ErrMovieNotFound, id), params, "movie", strconv.Itoa(id)); err != nil {
		return nil, err
	}
	d := c.toDetail(id, &m)
	c.movies.Set(id, d)
	return d, nil
}

// PersonDetail returns a cast or crew member with their acting credits, most popular first.
func (c *TMDBClient) PersonDetail(ctx context.Context, id int) (*models.PersonDetail, error) {
	if p, ok := c.people.Get(id); ok {
		metrics.RecordProviderRequest("cache_hit", 0)
		return p, nil
	}
	var tp tmdbPerson
	params := url.Values{"append_to_response": {"images,movie_credits"}}
	if err := c.call(ctx, &tp, fmt.Errorf("%w: %d", ErrPersonNotFound, id), params, "person", strconv.Itoa(id)); err != nil {
		return nil, err
	}
	p := c.toPerson(id, &tp)
	c.people.Set(id, p)
	return p, nil
}

// Trending returns this week's trending movies in provider order. The list is refreshed
// at most once per trendingTTL.
func (c *TMDBClient) Trending(ctx context.Context) ([]models.MovieSummary, error) {
	c.trendingMu.Lock()
	defer c.trendingMu.Unlock()
	if c.trending != nil && c.now().Sub(c.trendingFetched) < trendingTTL {
		metrics.RecordProviderRequest("cache_hit", 0)
		return c.trending, nil
	}
	var tt tmdbTrending
	if err := c.call(ctx, &tt, errors.New("trending list not found"), url.Values{"language": {"en-US"}}, "trending", "movie", "week"); err != nil {
		return nil, err
	}
	out := make([]models.MovieSummary, 0, trendingLimit)
	for _, r := range tt.Results {
		if len(out) == trendingLimit {
			break
		}
		out = append(out, models.MovieSummary{ID: r.ID, Title: r.Title, ImageURL: c.imageURL(r.PosterPath)})
	}
	c.trending, c.trendingFetched = out, c.now()
	return out, nil
}

// call issues a GET through the limiter and breaker and decodes the body into v.
// A 404 yields notFound.
func (c *TMDBClient) call(ctx context.Context, v any, notFound error, params url.Values, path ...string) error {
	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, notFound, params, path...)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordProviderRequest("circuit_open", 0)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case err != nil:
		metrics.RecordProviderRequest("error", time.Since(start))
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		metrics.RecordProviderRequest("error", time.Since(start))
		return fmt.Errorf("decode %s: %w", strings.Join(path, "/"), err)
	}
	metrics.RecordProviderRequest("ok", time.Since(start))
	return nil
}

func (c *TMDBClient) get(ctx context.Context, notFound error, params url.Values, path ...string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	u := c.baseURL.JoinPath(path...)
	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()
	resource := strings.Join(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request for %s: %w", resource, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("metadata provider returned %s for %s", resp.Status, resource)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resource, err)
	}
	return body, nil
}

func (c *TMDBClient) toDetail(id int, m *tmdbMovie) *models.MovieDetail {
	path := m.PosterPath
	if path == "" && len(m.Images.Posters) > 0 {
		path = m.Images.Posters[0].FilePath
	}
	d := &models.MovieDetail{
		ID:          id,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		ImageURL:    c.imageURL(path),
		Popularity:  RoundPopularity(m.Popularity),
		Runtime:     m.Runtime,
		Tagline:     m.Tagline,
	}
	for _, g := range m.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	for _, crew := range m.Credits.Crew {
		if crew.Job == "Director" {
			d.Directors = append(d.Directors, crew.Name)
		}
	}
	for _, v := range m.Videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" && v.Key != "" {
			d.TrailerURL = youtubeEmbedBase + v.Key
			break
		}
	}
	return d
}

func (c *TMDBClient) toPerson(id int, tp *tmdbPerson) *models.PersonDetail {
	path := tp.ProfilePath
	if len(tp.Images.Profiles) > 0 {
		path = tp.Images.Profiles[0].FilePath
	}
	p := &models.PersonDetail{
		ID:        id,
		Name:      tp.Name,
		Biography: tp.Biography,
		ImageURL:  c.imageURL(path),
		Movies:    make([]models.PersonCredit, 0, len(tp.MovieCredits.Cast)),
	}
	credits := slices.Clone(tp.MovieCredits.Cast)
	sort.SliceStable(credits, func(i, j int) bool {
		return credits[i].Popularity > credits[j].Popularity
	})
	raw := make([]float64, len(credits))
	for i, m := range credits {
		raw[i] = m.Popularity
	}
	scaled := ScalePopularity(raw)
	for i, m := range credits {
		p.Movies = append(p.Movies, models.PersonCredit{
			ID:          m.ID,
			Title:       m.Title,
			Character:   m.Character,
			ReleaseDate: m.ReleaseDate,
			ImageURL:    c.imageURL(m.PosterPath),
			Popularity:  scaled[i],
		})
	}
	return p
}

func (c *TMDBClient) imageURL(path string) string {
	if path == "" {
		return c.placeholder
	}
	return strings.TrimSuffix(c.imageBase, "/") + "/" + strings.TrimPrefix(path, "/")
}

// RoundPopularity rounds a provider popularity score to two decimals. Negative scores
// report as zero.
func RoundPopularity(p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		return 0
	}
	return math.Round(p*100) / 100
}

// ScalePopularity maps raw popularity scores to whole percentages of the largest one.
// When no score is positive every entry is zero.
func ScalePopularity(raw []float64) []int {
	out := make([]int, len(raw))
	var top float64
	for _, p := range raw {
		if p > top {
			top = p
		}
	}
	if top <= 0 {
		return out
	}
	for i, p := range raw {
		if p > 0 {
			out[i] = int(math.Round(p / top * 100))
		}
	}
	return out
}
