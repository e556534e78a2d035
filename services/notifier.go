package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// BookingNotifier tells the site owner about a new booking request.
type BookingNotifier interface {
	NotifyBooking(ctx context.Context, booking models.Booking) error
}

// Notifiers fans a booking out to every configured channel.
type Notifiers []BookingNotifier

// NotifyBooking tries every channel and joins the failures.
func (n Notifiers) NotifyBooking(ctx context.Context, booking models.Booking) error {
	var errList []error
	for _, notifier := range n {
		if err := notifier.NotifyBooking(ctx, booking); err != nil {
			log.Error().Err(err).Str("bookingId", booking.ID.String()).Msgf("%T failed", notifier)
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

var plainText = bluemonday.StrictPolicy()

// bookingSummary renders client supplied fields with markup stripped and
// text HTML escaped.
func bookingSummary(b models.Booking) (subject, body string) {
	name := plainText.Sanitize(b.ClientName)
	subject = fmt.Sprintf("New %s booking from %s", plainText.Sanitize(b.MeetingType), name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) requested a %s on %s at %s.",
		name,
		plainText.Sanitize(b.ClientEmail),
		plainText.Sanitize(b.MeetingType),
		b.BookingDate.String(),
		plainText.Sanitize(b.BookingTime),
	)
	if b.Message != nil && *b.Message != "" {
		sb.WriteString("\n\n")
		sb.WriteString(plainText.Sanitize(*b.Message))
	}
	return subject, sb.String()
}
