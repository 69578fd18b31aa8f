package domain

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Entity identifies which set of validation rules applies to a payload.
type Entity string

const (
	EntityUserRegistration Entity = "user_registration"
	EntityItinerary        Entity = "itinerary"
	EntityBooking          Entity = "booking"
	EntityVendorProfile    Entity = "vendor_profile"
)

// Entities lists every supported entity kind.
var Entities = []Entity{
	EntityUserRegistration,
	EntityItinerary,
	EntityBooking,
	EntityVendorProfile,
}

// ParseEntity maps a string to a known Entity.
func ParseEntity(s string) (Entity, bool) {
	for _, e := range Entities {
		if string(e) == s {
			return e, true
		}
	}
	return "", false
}

// Text fields are *string (nil means absent). Fields that need numeric or list
// coercion stay untyped so malformed input can still be reported.

// UserRegistration is the payload for a new account.
type UserRegistration struct {
	Email    *string `mapstructure:"email"`
	Password *string `mapstructure:"password"`
	FullName *string `mapstructure:"full_name"`
	Phone    *string `mapstructure:"phone"`
}

// ItineraryCreate is the payload for a new guided itinerary.
type ItineraryCreate struct {
	Title           *string `mapstructure:"title"`
	Description     *string `mapstructure:"description"`
	DurationMinutes any     `mapstructure:"duration_minutes"`
	PricePerPerson  any     `mapstructure:"price_per_person"`
	MeetingAddress  *string `mapstructure:"meeting_address"`
	MeetingPoint    any     `mapstructure:"meeting_point"`
	Category        *string `mapstructure:"category"`
	MaxGroupSize    any     `mapstructure:"max_group_size"`
	Highlights      any     `mapstructure:"highlights"`
}

// BookingCreate is the payload for a new booking of an itinerary.
type BookingCreate struct {
	ItineraryID     *string `mapstructure:"itinerary_id"`
	BookingDate     *string `mapstructure:"booking_date"`
	StartTime       *string `mapstructure:"start_time"`
	NumberOfPeople  any     `mapstructure:"number_of_people"`
	SpecialRequests *string `mapstructure:"special_requests"`
}

// VendorProfile is the payload for a guide's public profile.
type VendorProfile struct {
	BusinessName    *string `mapstructure:"business_name"`
	Description     *string `mapstructure:"description"`
	HourlyRate      any     `mapstructure:"hourly_rate"`
	ExperienceYears any     `mapstructure:"experience_years"`
	Expertise       any     `mapstructure:"expertise"`
	Languages       any     `mapstructure:"languages"`
}

// UserRegistrationFromMap decodes an untrusted payload.
func UserRegistrationFromMap(raw map[string]any) (UserRegistration, error) {
	var out UserRegistration
	return out, decodeRequest(raw, &out)
}

// ItineraryCreateFromMap decodes an untrusted payload.
func ItineraryCreateFromMap(raw map[string]any) (ItineraryCreate, error) {
	var out ItineraryCreate
	return out, decodeRequest(raw, &out)
}

// BookingCreateFromMap decodes an untrusted payload.
func BookingCreateFromMap(raw map[string]any) (BookingCreate, error) {
	var out BookingCreate
	return out, decodeRequest(raw, &out)
}

// VendorProfileFromMap decodes an untrusted payload.
func VendorProfileFromMap(raw map[string]any) (VendorProfile, error) {
	var out VendorProfile
	return out, decodeRequest(raw, &out)
}

func decodeRequest(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringifyHook,
		WeaklyTypedInput: true,
		// Keys are case-sensitive: "Email" is not "email".
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:    out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// stringifyHook renders any non-nil value into a string target, so a number or
// a nested object in a text field becomes text instead of a decode failure.
func stringifyHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if data == nil || to.Kind() != reflect.String {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return s, nil
	}
	return fmt.Sprint(data), nil
}

// ValidationEvent is published after every validation run.
type ValidationEvent struct {
	ID         string            `json:"id"`
	Entity     Entity            `json:"entity"`
	Valid      bool              `json:"valid"`
	ErrorCount int               `json:"error_count"`
	Fields     []string          `json:"fields,omitempty"`
	Source     string            `json:"source,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
