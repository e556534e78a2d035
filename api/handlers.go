package api

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// notifyTimeout bounds one booking notification across every channel.
const notifyTimeout = 15 * time.Second

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projects       crudHandler
	certifications crudHandler
	hackathons     crudHandler
	education      crudHandler
	experiences    crudHandler
	articles       crudHandler
	categories     crudHandler
	bookings       crudHandler

	auth     authHandler
	settings settingsHandler
	health   healthHandler
	// upload is nil when no storage backend is configured.
	upload *uploadHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, rt router, metrics *Metrics) *routeHandlers {
	bookings := newResourceHandler[models.Booking, models.BookingInput]("booking", db.BookingRepo())
	bookings.created = notifyBooking(rt.notifier)

	handlers := &routeHandlers{
		projects:       newProjectHandler(db.ProjectRepo()),
		certifications: newResourceHandler[models.Certification, models.CertificationInput]("certification", db.CertificationRepo()),
		hackathons:     newResourceHandler[models.Hackathon, models.HackathonInput]("hackathon", db.HackathonRepo()),
		education:      newResourceHandler[models.Education, models.EducationInput]("education", db.EducationRepo()),
		experiences:    newResourceHandler[models.Experience, models.ExperienceInput]("experience", db.ExperienceRepo()),
		articles:       newResourceHandler[models.Article, models.ArticleInput]("article", db.ArticleRepo()),
		categories:     newResourceHandler[models.Category, models.CategoryInput]("category", db.CategoryRepo()),
		bookings:       bookings,

		auth:     newAuthHandler(db.AdminUserRepo(), rt.tokens),
		settings: newSettingsHandler(db.SettingsRepo()),
		health:   newHealthHandler(db, rt.startupTime),
	}
	if rt.uploader != nil {
		upload := newUploadHandler(rt.uploader, metrics)
		handlers.upload = &upload
	}
	return handlers
}

// notifyBooking sends the notification in the background so a slow or
// failing channel never holds up the booking response.
func notifyBooking(notifier services.BookingNotifier) func(context.Context, *models.Booking) {
	return func(ctx context.Context, row *models.Booking) {
		booking := *row
		ctx = context.WithoutCancel(ctx)
		go func() {
			ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
			defer cancel()
			if err := notifier.NotifyBooking(ctx, booking); err != nil {
				log.Warn().Err(err).Str("bookingId", booking.ID.String()).Msg("Booking notification incomplete")
			}
		}()
	}
}
