package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tayloree/luckydex/internal/utils"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL hosts the five minified JSON feeds.
	DefaultBaseURL = "https://raw.githubusercontent.com/bigfoott/ScrapedDuck/data"
	// DefaultSpeciesURL lists every species with its dex URL.
	DefaultSpeciesURL = "https://pokeapi.co/api/v2/pokemon-species?limit=2000"

	userAgent = "luckydex/1.0 (+https://github.com/tayloree/luckydex)"

	eventsFile   = "events.min.json"
	raidsFile    = "raids.min.json"
	researchFile = "research.min.json"
	eggsFile     = "eggs.min.json"
	rocketsFile  = "rocketLineups.min.json"
)

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Client fetches game feeds and catalog data over HTTP with retries.
type Client struct {
	http       *retryablehttp.Client
	baseURL    string
	speciesURL string
}

// NewClient creates a client for the public feed and catalog endpoints.
func NewClient() *Client {
	return NewClientWithBaseURLs(DefaultBaseURL, DefaultSpeciesURL)
}

// NewClientWithBaseURLs creates a client with custom endpoints.
func NewClientWithBaseURLs(baseURL, speciesURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = utils.LeveledLogger{}
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 15 * time.Second
	return &Client{
		http:       rc,
		baseURL:    strings.TrimRight(baseURL, "/"),
		speciesURL: speciesURL,
	}
}

// BaseURL is the feed root the client reads from.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, reqURL, accept string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}
	return resp, nil
}

func (c *Client) getAndDecode(ctx context.Context, reqURL string, out any) error {
	resp, err := c.get(ctx, reqURL, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: trailing JSON content")
	}
	return nil
}

func (c *Client) getBody(ctx context.Context, reqURL, accept string) ([]byte, error) {
	resp, err := c.get(ctx, reqURL, accept)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func fetchFeed[T any](ctx context.Context, c *Client, file string) ([]T, error) {
	var out []T
	if err := c.getAndDecode(ctx, c.baseURL+"/"+file, &out); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", file, err)
	}
	utils.Log.WithField("feed", file).WithField("records", len(out)).Debug("fetched feed")
	return out, nil
}

// FetchEvents fetches the event feed.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	return fetchFeed[Event](ctx, c, eventsFile)
}

// FetchRaids fetches the current raid bosses.
func (c *Client) FetchRaids(ctx context.Context) ([]RaidBoss, error) {
	return fetchFeed[RaidBoss](ctx, c, raidsFile)
}

// FetchResearch fetches standalone field research tasks.
func (c *Client) FetchResearch(ctx context.Context) ([]ResearchTask, error) {
	return fetchFeed[ResearchTask](ctx, c, researchFile)
}

// FetchEggs fetches the egg pool.
func (c *Client) FetchEggs(ctx context.Context) ([]EggEntry, error) {
	return fetchFeed[EggEntry](ctx, c, eggsFile)
}

// FetchRockets fetches faction battle lineups.
func (c *Client) FetchRockets(ctx context.Context) ([]RocketLineup, error) {
	return fetchFeed[RocketLineup](ctx, c, rocketsFile)
}

// FetchAll fetches the five feeds concurrently. Any failure cancels the rest.
func (c *Client) FetchAll(ctx context.Context) (Data, error) {
	var data Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Events, err = c.FetchEvents(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Raids, err = c.FetchRaids(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Research, err = c.FetchResearch(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Eggs, err = c.FetchEggs(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Rockets, err = c.FetchRockets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Data{}, err
	}
	return data, nil
}

// FetchSpecies returns the raw species list document.
func (c *Client) FetchSpecies(ctx context.Context) ([]byte, error) {
	body, err := c.getBody(ctx, c.speciesURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("fetching species: %w", err)
	}
	return body, nil
}

// FetchPage returns the HTML of an event page.
func (c *Client) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	body, err := c.getBody(ctx, pageURL, "text/html")
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return body, nil
}
