package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarConfig points at the OAuth credential and cached token files.
// Both are external collaborators; the tools only read them.
type CalendarConfig struct {
	CredentialsFile string
	TokenFile       string
	CalendarID      string
}

// calendarClient lazily builds and caches the Calendar service so that a
// missing credential file only fails calls that actually need it.
type calendarClient struct {
	cfg  CalendarConfig
	once sync.Once
	svc  *calendar.Service
	err  error
}

func newCalendarClient(cfg CalendarConfig) *calendarClient {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	return &calendarClient{cfg: cfg}
}

func (c *calendarClient) service(ctx context.Context) (*calendar.Service, error) {
	c.once.Do(func() {
		c.svc, c.err = c.connect(ctx)
	})
	return c.svc, c.err
}

func (c *calendarClient) connect(ctx context.Context) (*calendar.Service, error) {
	creds, err := os.ReadFile(c.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("google calendar not configured: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(creds, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse calendar credentials: %w", err)
	}

	tokenBytes, err := os.ReadFile(c.cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("calendar token missing, run the setup flow first: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenBytes, &token); err != nil {
		return nil, fmt.Errorf("parse calendar token: %w", err)
	}

	httpClient := oauthCfg.Client(ctx, &token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// CreateEvent creates the create_event tool. Times are RFC 3339; a missing
// end time defaults to one hour after the start.
func CreateEvent(cfg CalendarConfig) Tool {
	client := newCalendarClient(cfg)
	schema := ObjectSchema(map[string]*PropertySchema{
		"summary":     StringProperty("Event title"),
		"start_time":  StringProperty("Start time, RFC 3339"),
		"end_time":    StringProperty("End time, RFC 3339 (default: start + 1h)"),
		"description": StringProperty("Event description"),
	}, []string{"summary", "start_time"})

	return NewTool(
		"create_event",
		"Create a Google Calendar event",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			svc, err := client.service(ctx)
			if err != nil {
				return nil, err
			}

			start, err := parseEventTime(stringParam(params, "start_time", ""))
			if err != nil {
				return nil, fmt.Errorf("invalid start_time: %w", err)
			}
			end := start.Add(time.Hour)
			if raw := stringParam(params, "end_time", ""); raw != "" {
				end, err = parseEventTime(raw)
				if err != nil {
					return nil, fmt.Errorf("invalid end_time: %w", err)
				}
			}

			event := &calendar.Event{
				Summary:     stringParam(params, "summary", ""),
				Description: stringParam(params, "description", ""),
				Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
				End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
			}
			created, err := svc.Events.Insert(client.cfg.CalendarID, event).Context(ctx).Do()
			if err != nil {
				return nil, fmt.Errorf("create event: %w", err)
			}
			return map[string]any{
				"event_id": created.Id,
				"summary":  created.Summary,
				"start":    start.Format(time.RFC3339),
				"link":     created.HtmlLink,
			}, nil
		},
	)
}

// ListEvents creates the list_events tool for upcoming events.
func ListEvents(cfg CalendarConfig) Tool {
	client := newCalendarClient(cfg)
	schema := ObjectSchema(map[string]*PropertySchema{
		"max_results": NumberProperty("Maximum number of events (default 10)"),
		"time_min":    StringProperty("Earliest event time, RFC 3339 (default now)"),
	}, nil)

	return NewTool(
		"list_events",
		"List upcoming Google Calendar events",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			svc, err := client.service(ctx)
			if err != nil {
				return nil, err
			}

			maxResults := intParam(params, "max_results", 10)
			timeMin := stringParam(params, "time_min", "")
			if timeMin == "" {
				timeMin = time.Now().UTC().Format(time.RFC3339)
			}

			list, err := svc.Events.List(client.cfg.CalendarID).
				TimeMin(timeMin).
				MaxResults(int64(maxResults)).
				SingleEvents(true).
				OrderBy("startTime").
				Context(ctx).Do()
			if err != nil {
				return nil, fmt.Errorf("list events: %w", err)
			}

			events := make([]map[string]any, 0, len(list.Items))
			for _, item := range list.Items {
				events = append(events, map[string]any{
					"id":          item.Id,
					"summary":     item.Summary,
					"start":       eventTime(item.Start),
					"end":         eventTime(item.End),
					"description": item.Description,
				})
			}
			return map[string]any{
				"events": events,
				"count":  len(events),
			}, nil
		},
	)
}

// DeleteEvent creates the delete_event tool.
func DeleteEvent(cfg CalendarConfig) Tool {
	client := newCalendarClient(cfg)
	schema := ObjectSchema(map[string]*PropertySchema{
		"event_id": StringProperty("Identifier of the event to delete"),
	}, []string{"event_id"})

	return NewTool(
		"delete_event",
		"Delete a Google Calendar event",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			svc, err := client.service(ctx)
			if err != nil {
				return nil, err
			}

			eventID := stringParam(params, "event_id", "")
			if err := svc.Events.Delete(client.cfg.CalendarID, eventID).Context(ctx).Do(); err != nil {
				return nil, fmt.Errorf("delete event: %w", err)
			}
			return map[string]any{
				"event_id": eventID,
				"message":  "event deleted",
			}, nil
		},
	)
}

func parseEventTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return t, nil
	}
	// Tolerate a missing zone designator.
	return time.Parse("2006-01-02T15:04:05", raw)
}

func eventTime(edt *calendar.EventDateTime) string {
	if edt == nil {
		return ""
	}
	if edt.DateTime != "" {
		return edt.DateTime
	}
	return edt.Date
}
