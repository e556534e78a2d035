package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

func testBooking() models.Booking {
	msg := "Hi <script>alert(1)</script>there"
	return models.Booking{
		Base:        models.Base{ID: uuid.New()},
		MeetingType: "consultation",
		BookingDate: models.NewDate(2025, 3, 14),
		BookingTime: "15:30",
		ClientName:  "<b>Ada</b>",
		ClientEmail: "ada@example.com",
		Message:     &msg,
		Status:      models.BookingPending,
	}
}

func TestBookingSummaryStripsMarkup(t *testing.T) {
	subject, body := bookingSummary(testBooking())
	assert.Equal(t, "New consultation booking from Ada", subject)
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<b>")
	assert.Contains(t, body, "2025-03-14")
	assert.Contains(t, body, "15:30")
}

func TestSendEmail(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ResendEmailResponse{ID: "email_123"})
	}))
	defer srv.Close()

	notifier := NewEmailNotifier(NewEmailSender("re_key", "Site <noreply@example.com>", srv.URL+"/"), "owner@example.com")
	require.NoError(t, notifier.NotifyBooking(context.Background(), testBooking()))

	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "Site <noreply@example.com>", got.From)
	assert.True(t, strings.HasPrefix(got.Html, "<p>"))
	assert.NotContains(t, got.Html, "<script>")
}

func TestSendEmailReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	err := NewEmailSender("re_key", "bad", srv.URL).SendEmail(context.Background(), "s", "b", []string{"owner@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestSendEmailRequiresRecipients(t *testing.T) {
	err := NewEmailSender("k", "f", "http://unused").SendEmail(context.Background(), "s", "b", nil)
	assert.Error(t, err)
}

type fakeMessages struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMSNotifier(t *testing.T) {
	api := &fakeMessages{}
	notifier := &SMSNotifier{api: api, from: "+15550000000", to: "+15551111111"}

	require.NoError(t, notifier.NotifyBooking(context.Background(), testBooking()))
	require.NotNil(t, api.params)
	assert.Equal(t, "+15551111111", *api.params.To)
	assert.Equal(t, "+15550000000", *api.params.From)
	assert.Contains(t, *api.params.Body, "Ada")
	assert.Contains(t, *api.params.Body, "2025-03-14")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestSMSNotifierSendsThroughTwilioClient(t *testing.T) {
	var form map[string][]string
	var path, user string
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		path = r.URL.Path
		user, _, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		return &http.Response{
			StatusCode: http.StatusCreated,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"sid":"SM999"}`)),
			Request:    r,
		}, nil
	})

	notifier := newSMSNotifier("AC123", "token", "+15550000000", "+15551111111", &http.Client{Transport: transport})
	require.NoError(t, notifier.NotifyBooking(context.Background(), testBooking()))
	assert.True(t, strings.HasSuffix(path, "/Accounts/AC123/Messages.json"), path)
	assert.Equal(t, "AC123", user)
	assert.Equal(t, []string{"+15551111111"}, form["To"])
	assert.Equal(t, []string{"+15550000000"}, form["From"])
}

func TestSMSNotifierTimesOut(t *testing.T) {
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})

	notifier := newSMSNotifier("AC123", "token", "+15550000000", "+15551111111",
		&http.Client{Transport: transport, Timeout: 50 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- notifier.NotifyBooking(context.Background(), testBooking()) }()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sms request was not bounded by the client timeout")
	}
}

func TestSMSNotifierHonorsCancelledContext(t *testing.T) {
	api := &fakeMessages{}
	notifier := &SMSNotifier{api: api, from: "+15550000000", to: "+15551111111"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, notifier.NotifyBooking(ctx, testBooking()), context.Canceled)
	assert.Nil(t, api.params)
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) NotifyBooking(context.Context, models.Booking) error {
	r.calls++
	return r.err
}

func TestNotifiersTryEveryChannel(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("smtp down")}
	ok := &recordingNotifier{}

	err := Notifiers{failing, ok}.NotifyBooking(context.Background(), testBooking())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	assert.NoError(t, Notifiers{}.NotifyBooking(context.Background(), testBooking()))
}
