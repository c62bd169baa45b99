// Package provider reads event state from a pretix-compatible ticketing API.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
)

const maxPages = 1000

// ErrForeignNextPage is returned when a pagination link leaves the configured host.
var ErrForeignNextPage = errors.New("pagination link points to a different host")

// StatusError is a non-2xx provider response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("provider GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client fetches one organizer's events. Every request, including each
// pagination page, goes through the requester.
type Client struct {
	baseURL     string
	organizerID string
	apiToken    string
	requester   ports.Requester
	validate    *validator.Validate
}

// NewHTTPClient returns the traced HTTP client provider calls share.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// New creates a client for one organizer.
func New(cfg domain.OrganizerConfig, requester ports.Requester) *Client {
	return &Client{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		organizerID: strings.TrimSpace(cfg.OrganizerID),
		apiToken:    strings.TrimSpace(cfg.APIToken),
		requester:   requester,
		validate:    validator.New(),
	}
}

// FetchEvent performs the settings, items, event and orders reads concurrently.
// The first failure cancels the remaining reads.
func (c *Client) FetchEvent(ctx context.Context, event domain.EventConfig) (domain.EventSnapshot, error) {
	var (
		settings settingsDTO
		meta     eventDTO
		items    []itemDTO
		orders   []orderDTO
	)
	base := c.eventURL(event.EventID)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		return c.getJSON(ctx, base+"settings/", &settings)
	})
	p.Go(func(ctx context.Context) error {
		var err error
		items, err = fetchAll[itemDTO](ctx, c, base+"items/")
		return err
	})
	p.Go(func(ctx context.Context) error {
		return c.getJSON(ctx, base, &meta)
	})
	p.Go(func(ctx context.Context) error {
		var err error
		orders, err = fetchAll[orderDTO](ctx, c, base+"orders/")
		return err
	})
	if err := p.Wait(); err != nil {
		return domain.EventSnapshot{}, fmt.Errorf("fetch event %s: %w", event.EventID, err)
	}

	return toSnapshot(event, settings, meta, items, orders), nil
}

func (c *Client) eventURL(eventID string) string {
	return fmt.Sprintf("%s/organizers/%s/events/%s/", c.baseURL, url.PathEscape(c.organizerID), url.PathEscape(eventID))
}

func fetchAll[T any](ctx context.Context, c *Client, first string) ([]T, error) {
	var out []T
	next := first
	for pageNo := 0; next != ""; pageNo++ {
		if pageNo >= maxPages {
			return nil, fmt.Errorf("%s: more than %d pages", first, maxPages)
		}
		var current page[T]
		if err := c.getJSON(ctx, next, &current); err != nil {
			return nil, err
		}
		out = append(out, current.Results...)

		resolved, err := c.resolveNext(next, current.Next)
		if err != nil {
			return nil, err
		}
		next = resolved
	}
	return out, nil
}

func (c *Client) resolveNext(current, next string) (string, error) {
	next = strings.TrimSpace(next)
	if next == "" {
		return "", nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("invalid next link %q: %w", next, err)
	}
	resolved := base.ResolveReference(ref)
	if resolved.Host != base.Host {
		return "", fmt.Errorf("%w: %s", ErrForeignNextPage, resolved.Host)
	}
	return resolved.String(), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.requester.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("invalid response from %s: %w", endpoint, err)
	}
	return nil
}

func toSnapshot(event domain.EventConfig, settings settingsDTO, meta eventDTO, items []itemDTO, orders []orderDTO) domain.EventSnapshot {
	snapshot := domain.EventSnapshot{
		Config: event,
		Settings: domain.EventSettings{
			AttendeeEmailsAsked:    settings.AttendeeEmailsAsked,
			AttendeeEmailsRequired: settings.AttendeeEmailsRequired,
		},
		Event: domain.EventMeta{Slug: meta.Slug, Name: string(meta.Name)},
		Items: make([]domain.Item, 0, len(items)),
	}
	for _, item := range items {
		snapshot.Items = append(snapshot.Items, domain.Item{
			ID:              formatID(item.ID),
			Name:            string(item.Name),
			Admission:       item.Admission,
			Personalized:    item.Personalized,
			GenerateTickets: item.GenerateTickets,
		})
	}
	snapshot.Orders = make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		positions := make([]domain.Position, 0, len(order.Positions))
		for _, position := range order.Positions {
			positions = append(positions, domain.Position{
				ID:           formatID(position.ID),
				ItemID:       formatID(position.Item),
				AttendeeName: position.AttendeeName,
				Email:        position.AttendeeEmail,
				Secret:       position.Secret,
				CheckedIn:    len(position.Checkins) > 0,
			})
		}
		snapshot.Orders = append(snapshot.Orders, domain.Order{
			Code:      order.Code,
			Status:    order.Status,
			Email:     order.Email,
			Positions: positions,
		})
	}
	return snapshot
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

var _ ports.ProviderClient = (*Client)(nil)
