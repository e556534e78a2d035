package models

const BookingPending = "pending"

// Booking is a meeting request submitted from the public site.
type Booking struct {
	Base
	MeetingType string  `json:"meeting_type" gorm:"type:text;not null"`
	BookingDate Date    `json:"booking_date" gorm:"type:date;not null"`
	BookingTime string  `json:"booking_time" gorm:"type:text;not null"`
	ClientName  string  `json:"client_name" gorm:"type:text;not null"`
	ClientEmail string  `json:"client_email" gorm:"type:text;not null"`
	Message     *string `json:"message" gorm:"type:text"`
	Status      string  `json:"status" gorm:"type:text;not null;index"`
}

type BookingInput struct {
	MeetingType *string          `json:"meeting_type"`
	BookingDate *Date            `json:"booking_date"`
	BookingTime *string          `json:"booking_time"`
	ClientName  *string          `json:"client_name"`
	ClientEmail *string          `json:"client_email" validate:"omitempty,email"`
	Message     Nullable[string] `json:"message"`
	Status      *string          `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

func (in BookingInput) ValidateCreate() error {
	if err := checkRequired(
		required("meeting_type", notBlank(in.MeetingType)),
		required("booking_date", in.BookingDate != nil),
		required("booking_time", notBlank(in.BookingTime)),
		required("client_name", notBlank(in.ClientName)),
		required("client_email", notBlank(in.ClientEmail)),
	); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in BookingInput) ValidateUpdate() error {
	if err := checkRequired(
		keep("meeting_type", in.MeetingType),
		keep("booking_time", in.BookingTime),
		keep("client_name", in.ClientName),
		keep("client_email", in.ClientEmail),
	); err != nil {
		return err
	}
	return validateStruct(in)
}

// Model always starts a booking as pending; only an authenticated update
// moves it through its lifecycle.
func (in BookingInput) Model() *Booking {
	return &Booking{
		MeetingType: *in.MeetingType,
		BookingDate: *in.BookingDate,
		BookingTime: *in.BookingTime,
		ClientName:  *in.ClientName,
		ClientEmail: *in.ClientEmail,
		Message:     in.Message.Ptr(),
		Status:      BookingPending,
	}
}

func (in BookingInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "meeting_type", in.MeetingType)
	coalesce(p, "booking_date", in.BookingDate)
	coalesce(p, "booking_time", in.BookingTime)
	coalesce(p, "client_name", in.ClientName)
	coalesce(p, "client_email", in.ClientEmail)
	coalesce(p, "status", in.Status)
	assign(p, "message", in.Message)
	return stamp(p)
}
