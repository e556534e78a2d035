package services

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts the owner about new bookings through Twilio.
type SMSNotifier struct {
	api  messageCreator
	from string
	to   string
}

// smsTimeout bounds each Twilio request. The Twilio client takes no context.
const smsTimeout = 10 * time.Second

func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	return newSMSNotifier(accountSID, authToken, from, to, &http.Client{Timeout: smsTimeout})
}

func newSMSNotifier(accountSID, authToken, from, to string, httpClient *http.Client) *SMSNotifier {
	base := &client.Client{
		Credentials: client.NewCredentials(accountSID, authToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(accountSID)

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{Client: base})
	return &SMSNotifier{api: rest.Api, from: from, to: to}
}

// NotifyBooking sends one SMS. ctx is only checked before sending; the
// request itself is bounded by the HTTP client timeout.
func (n *SMSNotifier) NotifyBooking(ctx context.Context, booking models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, _ := bookingSummary(booking)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(fmt.Sprintf("%s on %s at %s", html.UnescapeString(subject), booking.BookingDate.String(), booking.BookingTime))

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms via Twilio: %w", err)
	}
	if resp.Sid != nil {
		log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent booking sms via Twilio")
	}
	return nil
}
