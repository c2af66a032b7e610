// Package calendar wraps the external Google Calendar backend: the free/busy
// query that reports committed occupancy and the event insert that commits a
// booking. The calendar is the single system of record; nothing is cached.
package calendar

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/Daniel-dot92/bookings-app/internal/availability"
	"github.com/Daniel-dot92/bookings-app/internal/civiltime"
	"github.com/Daniel-dot92/bookings-app/pkg/config"
)

// Event is the payload for a committed booking on the external calendar.
type Event struct {
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	AttendeeEmail string
}

// Client talks to a single Google calendar identified by CalendarID.
type Client struct {
	svc        *gcal.Service
	calendarID string
	logger     *zap.Logger
}

// NewClient builds an authorized calendar client using whichever credential
// path the configuration selects.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient, err := credentialClient(ctx, cfg.Google)
	if err != nil {
		return nil, err
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("init calendar service: %w", err)
	}

	return &Client{svc: svc, calendarID: cfg.Booking.CalendarID, logger: logger}, nil
}

// Ping checks that the calendar exists and the credentials can read it.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.svc.Calendars.Get(c.calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar %s unreachable: %w", c.calendarID, err)
	}
	return nil
}

// credentialClient resolves the configured auth mode into an authorized
// *http.Client. Both variants carry the same calendar scope.
func credentialClient(ctx context.Context, g config.GoogleConfig) (*http.Client, error) {
	switch g.AuthMode {
	case config.AuthModeServiceAccount:
		if g.ServiceAccountJSONBase64 == "" {
			return nil, fmt.Errorf("auth mode %s requires GOOGLE_SERVICE_ACCOUNT_JSON_BASE64", g.AuthMode)
		}
		raw, err := base64.StdEncoding.DecodeString(g.ServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("decode service account key: %w", err)
		}
		jwtCfg, err := google.JWTConfigFromJSON(raw, gcal.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		return jwtCfg.Client(ctx), nil

	case config.AuthModeDelegated:
		if g.RefreshToken == "" {
			return nil, fmt.Errorf("auth mode %s requires GOOGLE_REFRESH_TOKEN", g.AuthMode)
		}
		oc := OAuthConfig(g)
		return oc.Client(ctx, &oauth2.Token{RefreshToken: g.RefreshToken}), nil

	default:
		return nil, fmt.Errorf("unknown google auth mode %q", g.AuthMode)
	}
}

// OAuthConfig builds the delegated OAuth2 client configuration; also used by
// the bootstrap endpoints that obtain the initial refresh token.
func OAuthConfig(g config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Scopes:       []string{gcal.CalendarScope},
		Endpoint:     google.Endpoint,
	}
}

// BusyIntervals returns the committed occupancy on the calendar within
// [from, to], freshly queried on every call.
func (c *Client) BusyIntervals(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin:  from.Format(time.RFC3339),
		TimeMax:  to.Format(time.RFC3339),
		TimeZone: civiltime.Zone,
		Items:    []*gcal.FreeBusyRequestItem{{Id: c.calendarID}},
	}

	resp, err := c.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %s", c.calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy query for calendar %s: %s", c.calendarID, cal.Errors[0].Reason)
	}

	intervals := make([]availability.Interval, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", b.Start, err)
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", b.End, err)
		}
		intervals = append(intervals, availability.Interval{Start: start, End: end})
	}

	c.logger.Debug("freebusy fetched",
		zap.Time("from", from), zap.Time("to", to), zap.Int("busy", len(intervals)))

	return intervals, nil
}

// CreateEvent commits an event to the calendar and returns its identifier.
// The insert is not idempotent; callers must not retry on ambiguous failure.
func (c *Client) CreateEvent(ctx context.Context, ev Event) (string, error) {
	event := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: civiltime.Zone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: civiltime.Zone,
		},
		Reminders: &gcal.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if ev.AttendeeEmail != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: ev.AttendeeEmail}}
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}

	c.logger.Info("calendar event created",
		zap.String("event_id", created.Id), zap.Time("start", ev.Start))

	return created.Id, nil
}
