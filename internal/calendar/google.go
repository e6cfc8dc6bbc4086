package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const googleCalendarBaseURL = "https://www.googleapis.com/calendar/v3"

// GoogleCalendarClient talks to the Google Calendar API for the virtual
// component of events. Callers treat it as best-effort.
type GoogleCalendarClient struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	calendarID  string
}

func NewGoogleCalendarClient(accessToken, calendarID string) *GoogleCalendarClient {
	return &GoogleCalendarClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     googleCalendarBaseURL,
		accessToken: accessToken,
		calendarID:  calendarID,
	}
}

type calendarAttendee struct {
	Email string `json:"email"`
}

type calendarEventBody struct {
	Summary     string             `json:"summary,omitempty"`
	Description string             `json:"description,omitempty"`
	Start       *calendarEventTime `json:"start,omitempty"`
	End         *calendarEventTime `json:"end,omitempty"`
	Attendees   []calendarAttendee `json:"attendees,omitempty"`
}

type calendarEventTime struct {
	DateTime string `json:"dateTime"`
}

type calendarEventResponse struct {
	ID          string `json:"id"`
	HangoutLink string `json:"hangoutLink"`
}

// CreateEvent inserts a calendar event and returns its external ID and
// meeting join URL
func (c *GoogleCalendarClient) CreateEvent(ctx context.Context, title, description string, start time.Time, durationMins int, attendeeEmails []string) (string, string, error) {
	attendees := make([]calendarAttendee, 0, len(attendeeEmails))
	for _, email := range attendeeEmails {
		attendees = append(attendees, calendarAttendee{Email: email})
	}

	body := calendarEventBody{
		Summary:     title,
		Description: description,
		Start:       &calendarEventTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendarEventTime{DateTime: start.Add(time.Duration(durationMins) * time.Minute).Format(time.RFC3339)},
		Attendees:   attendees,
	}

	var resp calendarEventResponse
	path := fmt.Sprintf("/calendars/%s/events?conferenceDataVersion=1&sendUpdates=all", c.calendarID)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", "", err
	}

	return resp.ID, resp.HangoutLink, nil
}

// AddAttendees patches the attendee list of an existing calendar event
func (c *GoogleCalendarClient) AddAttendees(ctx context.Context, externalEventID string, emails []string) error {
	attendees := make([]calendarAttendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, calendarAttendee{Email: email})
	}

	path := fmt.Sprintf("/calendars/%s/events/%s?sendUpdates=all", c.calendarID, externalEventID)
	return c.do(ctx, http.MethodPatch, path, calendarEventBody{Attendees: attendees}, nil)
}

func (c *GoogleCalendarClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("calendar API returned %d: %s", res.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
