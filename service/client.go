package service

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

	"cinebook-cli/model"
)

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// TokenSource supplies the bearer credential for authenticated requests.
// An empty result simply omits the Authorization header; the server
// enforces authorization.
type TokenSource func() string

// Client wraps HTTP access to the cinema booking API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       TokenSource
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "cinebook api error"
	}
	if e.Message != "" {
		return fmt.Sprintf("cinebook api error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cinebook api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 or 403 from the
// API. Lookups for another user's booking come back as 403 and are
// indistinguishable from absent records on this side.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// Reason extracts the server-provided failure reason when the error is an
// API error carrying one; otherwise it returns the empty string.
func Reason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// NewClient creates a new API client. A nil httpClient falls back to a
// default with a 12s timeout; a nil token source omits the bearer header.
func NewClient(httpClient *http.Client, baseURL string, token TokenSource) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// Login exchanges credentials for a bearer token and user identity.
func (c *Client) Login(ctx context.Context, email string, password string) (model.LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.LoginResult{}, errors.New("email and password are required")
	}
	var result model.LoginResult
	err := c.postJSON(ctx, c.baseURL+"/login", model.Credentials{Email: email, Password: password}, &result)
	if err != nil {
		return model.LoginResult{}, err
	}
	if result.Token == "" {
		return model.LoginResult{}, errors.New("login response missing token")
	}
	return result, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	if strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return errors.New("email and password are required")
	}
	var out map[string]any
	return c.postJSON(ctx, c.baseURL+"/register", reg, &out)
}

// GetMovies returns the full movie catalog.
func (c *Client) GetMovies(ctx context.Context) ([]model.Movie, error) {
	var payload struct {
		Movies []model.Movie `json:"movies"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/movie/", &payload); err != nil {
		return nil, err
	}
	return payload.Movies, nil
}

// GetMovie fetches one movie by id.
func (c *Client) GetMovie(ctx context.Context, movieID int64) (model.Movie, error) {
	var payload struct {
		Movie model.Movie `json:"movie"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/movie/%d", c.baseURL, movieID), &payload); err != nil {
		return model.Movie{}, err
	}
	return payload.Movie, nil
}

// GetTheaters returns all theaters.
func (c *Client) GetTheaters(ctx context.Context) ([]model.Theater, error) {
	var payload struct {
		Theaters []model.Theater `json:"theaters"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/theater/", &payload); err != nil {
		return nil, err
	}
	return payload.Theaters, nil
}

// GetRoomsByTheater returns the rooms belonging to a theater.
func (c *Client) GetRoomsByTheater(ctx context.Context, theaterID int64) ([]model.Room, error) {
	if theaterID <= 0 {
		return nil, errors.New("theater id is required")
	}
	var payload struct {
		Rooms []model.Room `json:"rooms"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/room/%d", c.baseURL, theaterID), &payload); err != nil {
		return nil, err
	}
	return payload.Rooms, nil
}

// GetScreensByRoom returns the screens in a room.
func (c *Client) GetScreensByRoom(ctx context.Context, roomID int64) ([]model.Screen, error) {
	if roomID <= 0 {
		return nil, errors.New("room id is required")
	}
	var payload struct {
		Screens []model.Screen `json:"screens"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/screen/%d", c.baseURL, roomID), &payload); err != nil {
		return nil, err
	}
	return payload.Screens, nil
}

// GetSchedulesByScreen returns the schedules showing on a screen.
func (c *Client) GetSchedulesByScreen(ctx context.Context, screenID int64) ([]model.Schedule, error) {
	if screenID <= 0 {
		return nil, errors.New("screen id is required")
	}
	var payload struct {
		Schedules []model.Schedule `json:"schedules"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/schedule/screen/%d", c.baseURL, screenID), &payload); err != nil {
		return nil, err
	}
	return payload.Schedules, nil
}

// GetSchedule fetches one schedule, the fare source for the seat view.
func (c *Client) GetSchedule(ctx context.Context, scheduleID int64) (model.Schedule, error) {
	if scheduleID <= 0 {
		return model.Schedule{}, errors.New("schedule id is required")
	}
	var schedule model.Schedule
	if err := c.getJSON(ctx, fmt.Sprintf("%s/schedule/%d", c.baseURL, scheduleID), &schedule); err != nil {
		return model.Schedule{}, err
	}
	return schedule, nil
}

// GetSeatsByScreen returns the seat layout of a screen.
func (c *Client) GetSeatsByScreen(ctx context.Context, screenID int64) ([]model.Seat, error) {
	if screenID <= 0 {
		return nil, errors.New("screen id is required")
	}
	var payload struct {
		Seats []model.Seat `json:"seats"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/seats/%d", c.baseURL, screenID), &payload); err != nil {
		return nil, err
	}
	return payload.Seats, nil
}

// SubmitBooking books the given seats for a schedule as one atomic unit and
// returns the new booking id. idempotencyKey is a client-generated token for
// one submit attempt; the server may use it to dedupe retried submissions.
func (c *Client) SubmitBooking(ctx context.Context, scheduleID int64, seatIDs []int64, idempotencyKey string) (int64, error) {
	if scheduleID <= 0 {
		return 0, errors.New("schedule id is required")
	}
	if len(seatIDs) == 0 {
		return 0, errors.New("at least one seat is required")
	}

	body := struct {
		ScheduleID int64   `json:"schedule_id"`
		Seats      []int64 `json:"seats"`
	}{ScheduleID: scheduleID, Seats: seatIDs}

	var payload struct {
		BookingID int64 `json:"booking_id"`
	}
	headers := http.Header{}
	if idempotencyKey != "" {
		headers.Set("Idempotency-Key", idempotencyKey)
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/user/book", headers, body, &payload); err != nil {
		return 0, err
	}
	if payload.BookingID == 0 {
		return 0, errors.New("booking response missing booking id")
	}
	return payload.BookingID, nil
}

// GetTicketsByBooking returns the tickets issued for a booking.
func (c *Client) GetTicketsByBooking(ctx context.Context, bookingID int64) ([]model.Ticket, error) {
	if bookingID <= 0 {
		return nil, errors.New("booking id is required")
	}
	var payload struct {
		Tickets []model.Ticket `json:"tickets"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/tickets/booking/%d", c.baseURL, bookingID), &payload); err != nil {
		return nil, err
	}
	return payload.Tickets, nil
}

// GetBookingsByUser returns all bookings of a user. An empty slice is a
// valid result and distinct from an error.
func (c *Client) GetBookingsByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	if userID <= 0 {
		return nil, errors.New("user id is required")
	}
	var payload struct {
		Bookings []model.Booking `json:"bookings"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/user/bookings/%d", c.baseURL, userID), &payload); err != nil {
		return nil, err
	}
	return payload.Bookings, nil
}

// GetChatHistory fetches the message history for a chat room.
func (c *Client) GetChatHistory(ctx context.Context, room string) ([]model.ChatMessage, error) {
	if strings.TrimSpace(room) == "" {
		return nil, errors.New("room is required")
	}
	var payload struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Data    []model.ChatMessage `json:"data"`
	}
	endpoint := c.baseURL + "/chat/messages?room=" + url.QueryEscape(room)
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		if payload.Message != "" {
			return nil, fmt.Errorf("chat history: %s", payload.Message)
		}
		return nil, errors.New("chat history request failed")
	}
	return payload.Data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, nil, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, in any, out any) error {
	return c.doJSON(ctx, http.MethodPost, endpoint, nil, in, out)
}

func (c *Client) doJSON(ctx context.Context, method string, endpoint string, headers http.Header, in any, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if method != http.MethodGet {
		// Booking and login are not known to be idempotent server-side;
		// retrying them silently could double-submit.
		maxAttempts = 1
	}

	var payload []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for key, values := range headers {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Message:    serverMessage(snippet),
				Body:       strings.TrimSpace(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

// serverMessage pulls the {"error": "..."} reason the backend attaches to
// failed requests, when the body carries one.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
