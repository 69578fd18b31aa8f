package validation

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

var itineraryCategories = []string{"spiritual", "nature", "cultural", "culinary", "historical", "adventure"}

type requiredField struct {
	name  string
	value any
}

// requireAll records one error per missing field, in order, and reports
// whether every field was present. Entity validators stop at the first
// missing field set and run no other rule.
func (v *Validator) requireAll(b *Builder, fields ...requiredField) bool {
	for _, f := range fields {
		v.Required(b, f.name, f.value)
	}
	return b.Valid()
}

// UserRegistration validates a sign-up. The password is checked but never
// appears in the cleaned data.
func (v *Validator) UserRegistration(req domain.UserRegistration) Result {
	b := NewBuilder()
	if !v.requireAll(b,
		requiredField{"email", req.Email},
		requiredField{"password", req.Password},
		requiredField{"full_name", req.FullName},
	) {
		return b.Result()
	}

	if email, ok := v.Email(b, "email", *req.Email); ok {
		b.Set("email", email)
	}
	v.Password(b, "password", *req.Password)
	if name, ok := v.Name(b, "full_name", *req.FullName, DefaultNameMin, DefaultNameMax); ok {
		b.Set("full_name", name)
	}
	if present(req.Phone) {
		if phone, ok := v.Phone(b, "phone", *req.Phone); ok {
			b.Set("phone", phone)
		}
	}
	return b.Result()
}

// ItineraryCreate validates a new itinerary listing.
func (v *Validator) ItineraryCreate(req domain.ItineraryCreate) Result {
	b := NewBuilder()
	if !v.requireAll(b,
		requiredField{"title", req.Title},
		requiredField{"description", req.Description},
		requiredField{"duration_minutes", req.DurationMinutes},
		requiredField{"price_per_person", req.PricePerPerson},
		requiredField{"meeting_address", req.MeetingAddress},
	) {
		return b.Result()
	}

	textLength(b, "title", "Title", *req.Title, 10, 200)
	textLength(b, "description", "Description", *req.Description, 50, 2000)

	if d, ok := v.Duration(b, "duration_minutes", req.DurationMinutes, DefaultDurationMin, DefaultDurationMax); ok {
		b.Set("duration_minutes", d)
	}
	if p, ok := v.Price(b, "price_per_person", req.PricePerPerson, 100, 10000); ok {
		b.Set("price_per_person", p)
	}

	if addr := *req.MeetingAddress; utf8.RuneCountInString(addr) < 10 {
		b.AddError("meeting_address", "Address must be at least 10 characters", addr)
	} else {
		b.Set("meeting_address", strings.TrimSpace(addr))
	}

	// A meeting point without both lat and lng is ignored.
	if present(req.MeetingPoint) {
		if mp, ok := req.MeetingPoint.(map[string]any); ok {
			lat, hasLat := mp["lat"]
			lng, hasLng := mp["lng"]
			if hasLat && hasLng {
				if p, ok := v.Coordinates(b, "meeting_point", lat, lng); ok {
					b.Set("meeting_point", p)
				}
			}
		}
	}

	if present(req.Category) {
		category := strings.ToLower(*req.Category)
		if slices.Contains(itineraryCategories, category) {
			b.Set("category", category)
		} else {
			b.AddError("category", "Category must be one of: "+strings.Join(itineraryCategories, ", "), category)
		}
	}
	if present(req.MaxGroupSize) {
		if n, ok := v.GroupSize(b, "max_group_size", req.MaxGroupSize, 1, 50); ok {
			b.Set("max_group_size", n)
		}
	}
	if present(req.Highlights) {
		if items, ok := v.List(b, "highlights", req.Highlights, 3, 10); ok {
			b.Set("highlights", items)
		}
	}
	return b.Result()
}

// BookingCreate validates a booking request for an itinerary.
func (v *Validator) BookingCreate(req domain.BookingCreate) Result {
	b := NewBuilder()
	if !v.requireAll(b,
		requiredField{"itinerary_id", req.ItineraryID},
		requiredField{"booking_date", req.BookingDate},
		requiredField{"start_time", req.StartTime},
		requiredField{"number_of_people", req.NumberOfPeople},
	) {
		return b.Result()
	}

	if id, ok := v.UUID(b, "itinerary_id", *req.ItineraryID); ok {
		b.Set("itinerary_id", id)
	}
	if d, ok := v.Date(b, "booking_date", *req.BookingDate); ok {
		b.Set("booking_date", d)
	}
	if t, ok := v.Time(b, "start_time", *req.StartTime); ok {
		b.Set("start_time", t)
	}
	if n, ok := v.GroupSize(b, "number_of_people", req.NumberOfPeople, DefaultGroupMin, DefaultGroupMax); ok {
		b.Set("number_of_people", n)
	}

	if present(req.SpecialRequests) {
		if s := *req.SpecialRequests; utf8.RuneCountInString(s) > 500 {
			b.AddError("special_requests", "Special requests must be at most 500 characters", s)
		} else {
			b.Set("special_requests", strings.TrimSpace(s))
		}
	}
	return b.Result()
}

// VendorProfile validates a guide's public profile.
func (v *Validator) VendorProfile(req domain.VendorProfile) Result {
	b := NewBuilder()
	if !v.requireAll(b,
		requiredField{"business_name", req.BusinessName},
		requiredField{"description", req.Description},
	) {
		return b.Result()
	}

	if name, ok := v.Name(b, "business_name", *req.BusinessName, 3, 100); ok {
		b.Set("business_name", name)
	}
	textLength(b, "description", "Description", *req.Description, 50, 1000)

	if present(req.HourlyRate) {
		if rate, ok := v.Price(b, "hourly_rate", req.HourlyRate, 100, 5000); ok {
			b.Set("hourly_rate", rate)
		}
	}
	if present(req.ExperienceYears) {
		years, err := toInt(req.ExperienceYears)
		switch {
		case err != nil:
			b.AddError("experience_years", "Experience years must be a valid number", req.ExperienceYears)
		case years < 0:
			b.AddError("experience_years", "Experience years cannot be negative", years)
		case years > 60:
			b.AddError("experience_years", "Experience years cannot exceed 60", years)
		default:
			b.Set("experience_years", years)
		}
	}
	if present(req.Expertise) {
		if items, ok := v.List(b, "expertise", req.Expertise, 1, 10); ok {
			b.Set("expertise", items)
		}
	}
	if present(req.Languages) {
		if items, ok := v.List(b, "languages", req.Languages, 1, 10); ok {
			b.Set("languages", items)
		}
	}
	return b.Result()
}

// textLength checks the untrimmed length of free text and stores it trimmed.
func textLength(b *Builder, field, label, s string, minLen, maxLen int) {
	n := utf8.RuneCountInString(s)
	switch {
	case n < minLen:
		b.AddError(field, label+" must be at least "+strconv.Itoa(minLen)+" characters", s)
	case n > maxLen:
		b.AddError(field, label+" must be at most "+strconv.Itoa(maxLen)+" characters", s)
	default:
		b.Set(field, strings.TrimSpace(s))
	}
}
