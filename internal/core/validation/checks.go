package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

// Default bounds for the parameterized checks.
const (
	DefaultNameMin     = 2
	DefaultNameMax     = 100
	DefaultDurationMin = 30
	DefaultDurationMax = 240
	DefaultGroupMin    = 1
	DefaultGroupMax    = 20
	DefaultPriceMin    = 0
	DefaultPriceMax    = 100000

	passwordMinLen = 8
	passwordMaxLen = 128
	dateLayout     = "2006-01-02"
	maxFutureDays  = 365
)

var (
	emailRe      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	indianPhone  = regexp.MustCompile(`^(\+91[\-\s]?)?[6789]\d{9}$`)
	nameRe       = regexp.MustCompile(`^[A-Za-z\s.'-]+$`)
	urlRe        = regexp.MustCompile(`^https?://(?:[-\w.]|%[\da-fA-F]{2})+`)
	priceRe      = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	time24Re     = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])(?::([0-5][0-9]))?$`)
	dateRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	canonicalID  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	specialChars = `!@#$%^&*(),.?":{}|<>`

	disposableDomains = []string{
		"tempmail.com", "guerrillamail.com", "mailinator.com",
		"10minutemail.com", "throwawaymail.com", "yopmail.com",
	}
	reservedNames = map[string]bool{
		"admin": true, "root": true, "system": true, "null": true, "undefined": true,
	}
	commonPasswords = map[string]bool{
		"password": true, "12345678": true, "qwerty123": true, "admin123": true, "welcome123": true,
		"password123": true, "letmein": true, "monkey": true, "sunshine": true, "iloveyou": true,
	}

	availabilityStatuses = []string{"available", "unavailable", "busy", "on_leave"}
	verificationStatuses = []string{"pending", "verified", "rejected", "under_review"}
	bookingStatuses      = []string{"pending", "confirmed", "cancelled", "completed"}
)

// Required fails if value is absent or a blank string.
func (v *Validator) Required(b *Builder, field string, value any) bool {
	if missing(value) {
		b.AddError(field, "This field is required", deref(value))
		return false
	}
	return true
}

// Email trims and lowercases the address, checks its syntax and rejects
// disposable providers.
func (v *Validator) Email(b *Builder, field, email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		b.AddError(field, "Email is required", email)
		return "", false
	}
	if err := v.syntax.Var(email, "email"); err != nil {
		b.AddError(field, "Invalid email address", email)
		return "", false
	}
	if !emailRe.MatchString(email) {
		b.AddError(field, "Invalid email format", email)
		return "", false
	}
	domainPart := email[strings.LastIndexByte(email, '@')+1:]
	for _, d := range disposableDomains {
		if strings.Contains(domainPart, d) {
			b.AddError(field, "Temporary email addresses are not allowed", email)
			return "", false
		}
	}
	return email, true
}

// Phone parses the number against the configured region and returns it in
// E.164 form.
func (v *Validator) Phone(b *Builder, field, phone string) (string, bool) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		b.AddError(field, "Phone number is required", phone)
		return "", false
	}

	num, err := phonenumbers.Parse(phone, v.phoneRegion)
	if err != nil {
		b.AddError(field, "Invalid phone number format: "+err.Error(), phone)
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		b.AddError(field, "Invalid phone number", phone)
		return "", false
	}
	formatted := phonenumbers.Format(num, phonenumbers.E164)

	if v.phoneRegion == "IN" {
		local := strings.NewReplacer("+91", "", " ", "", "-", "").Replace(phone)
		if !indianPhone.MatchString(local) {
			b.AddError(field, "Invalid Indian phone number format", phone)
			return "", false
		}
	}
	return formatted, true
}

// Name checks a person or business name and returns it with every word
// capitalized.
func (v *Validator) Name(b *Builder, field, name string, minLen, maxLen int) (string, bool) {
	if name == "" {
		b.AddError(field, "Name is required", name)
		return "", false
	}
	name = strings.TrimSpace(name)

	n := utf8.RuneCountInString(name)
	if n < minLen {
		b.AddError(field, fmt.Sprintf("Name must be at least %d characters", minLen), name)
		return "", false
	}
	if n > maxLen {
		b.AddError(field, fmt.Sprintf("Name must be at most %d characters", maxLen), name)
		return "", false
	}
	if !nameRe.MatchString(name) {
		b.AddError(field, "Name can only contain letters, spaces, dots, hyphens and apostrophes", name)
		return "", false
	}
	if reservedNames[strings.ToLower(name)] {
		b.AddError(field, "Name contains inappropriate content", name)
		return "", false
	}

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " "), true
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// Password checks strength. The password itself is never echoed back, in
// errors or otherwise. All complexity failures share one message.
func (v *Validator) Password(b *Builder, field, password string) bool {
	if password == "" {
		b.AddError(field, "Password is required", nil)
		return false
	}
	n := utf8.RuneCountInString(password)
	if n < passwordMinLen {
		b.AddError(field, fmt.Sprintf("Password must be at least %d characters long", passwordMinLen), nil)
		return false
	}
	if n > passwordMaxLen {
		b.AddError(field, fmt.Sprintf("Password must be at most %d characters long", passwordMaxLen), nil)
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}

	var problems []string
	if !upper {
		problems = append(problems, "at least one uppercase letter")
	}
	if !lower {
		problems = append(problems, "at least one lowercase letter")
	}
	if !digit {
		problems = append(problems, "at least one number")
	}
	if !special {
		problems = append(problems, "at least one special character")
	}
	if commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "too common")
	}
	if hasRun(password, 4) {
		problems = append(problems, "too many repeated characters")
	}

	if len(problems) > 0 {
		b.AddError(field, "Password must contain "+strings.Join(problems, ", "), nil)
		return false
	}
	return true
}

// hasRun reports whether s holds n or more identical consecutive runes.
func hasRun(s string, n int) bool {
	var prev rune
	count := 0
	for i, r := range s {
		if i > 0 && r == prev {
			count++
		} else {
			count = 1
		}
		if count >= n {
			return true
		}
		prev = r
	}
	return false
}

// URL normalizes a link, defaulting the scheme to https.
func (v *Validator) URL(b *Builder, field, raw string, requireHTTPS bool) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		b.AddError(field, "URL is required", raw)
		return "", false
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	if !urlRe.MatchString(raw) {
		b.AddError(field, "Invalid URL format", raw)
		return "", false
	}
	if requireHTTPS && !strings.HasPrefix(raw, "https://") {
		b.AddError(field, "URL must use HTTPS", raw)
		return "", false
	}
	host, _, _ := strings.Cut(raw[strings.Index(raw, "://")+3:], "/")
	if !strings.Contains(host, ".") || len(host) < 3 {
		b.AddError(field, "Invalid domain in URL", raw)
		return "", false
	}
	return raw, true
}

// Date accepts a YYYY-MM-DD calendar date between today and one year ahead,
// inclusive, and returns it in the same layout.
func (v *Validator) Date(b *Builder, field, s string) (string, bool) {
	if s == "" {
		b.AddError(field, "Date is required", s)
		return "", false
	}
	if !dateRe.MatchString(s) {
		b.AddError(field, "Date must be in YYYY-MM-DD format", s)
		return "", false
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		b.AddError(field, "Invalid date: "+err.Error(), s)
		return "", false
	}

	now := v.clock()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		b.AddError(field, "Date cannot be in the past", s)
		return "", false
	}
	if d.After(today.AddDate(0, 0, maxFutureDays)) {
		b.AddError(field, "Date cannot be more than 1 year in the future", s)
		return "", false
	}
	return d.Format(dateLayout), true
}

// Time accepts HH:MM or HH:MM:SS within business hours, 09:00 to 18:00
// inclusive, and returns it as HH:MM:SS.
func (v *Validator) Time(b *Builder, field, s string) (string, bool) {
	if s == "" {
		b.AddError(field, "Time is required", s)
		return "", false
	}
	m := time24Re.FindStringSubmatch(s)
	if m == nil {
		b.AddError(field, "Time must be in HH:MM or HH:MM:SS 24-hour format", s)
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs := 0
	if m[3] != "" {
		secs, _ = strconv.Atoi(m[3])
	}

	t := h*3600 + mins*60 + secs
	if t < 9*3600 || t > 18*3600 {
		b.AddError(field, "Time must be between 9:00 AM and 6:00 PM", s)
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, mins, secs), true
}

// Price accepts a non-negative amount with at most two decimals inside
// [minPrice, maxPrice].
func (v *Validator) Price(b *Builder, field string, value any, minPrice, maxPrice float64) (float64, bool) {
	if value == nil {
		b.AddError(field, "Price is required", value)
		return 0, false
	}
	s, ok := toText(value)
	if !ok || !priceRe.MatchString(s) {
		b.AddError(field, "Price must be a valid number with up to 2 decimal places", value)
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		b.AddError(field, "Price must be a valid number", value)
		return 0, false
	}
	if d.LessThan(decimal.NewFromFloat(minPrice)) {
		b.AddError(field, "Price must be at least "+formatNumber(minPrice), value)
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromFloat(maxPrice)) {
		b.AddError(field, "Price must be at most "+formatNumber(maxPrice), value)
		return 0, false
	}
	return d.Round(2).InexactFloat64(), true
}

// Coordinates checks a lat/lng pair and requires it to be inside the service
// area. Range errors are reported on <prefix>_lat and <prefix>_lng, the area
// error on prefix itself.
func (v *Validator) Coordinates(b *Builder, prefix string, lat, lng any) (domain.GeoPoint, bool) {
	var (
		p         domain.GeoPoint
		latErr    error
		lngErr    error
		latAbsent = lat == nil
		lngAbsent = lng == nil
	)
	if !latAbsent {
		p.Lat, latErr = toFloat(lat)
	}
	if !lngAbsent {
		p.Lng, lngErr = toFloat(lng)
	}
	if latErr != nil || lngErr != nil {
		b.AddError(prefix, "Invalid coordinates format", []any{lat, lng})
		return domain.GeoPoint{}, false
	}

	if latAbsent || !(p.Lat >= -90 && p.Lat <= 90) {
		b.AddError(prefix+"_lat", "Latitude must be between -90 and 90", lat)
		return domain.GeoPoint{}, false
	}
	if lngAbsent || !(p.Lng >= -180 && p.Lng <= 180) {
		b.AddError(prefix+"_lng", "Longitude must be between -180 and 180", lng)
		return domain.GeoPoint{}, false
	}
	if !v.area.IsWithinServiceArea(p, v.bufferKm) {
		b.AddError(prefix, fmt.Sprintf("Location must be within %s area", v.areaName), p)
		return domain.GeoPoint{}, false
	}
	return p, true
}

// Duration accepts a whole number of minutes in [minMinutes, maxMinutes] that
// is a multiple of 15.
func (v *Validator) Duration(b *Builder, field string, value any, minMinutes, maxMinutes int) (int, bool) {
	if value == nil {
		b.AddError(field, "Duration is required", value)
		return 0, false
	}
	n, err := toInt(value)
	if err != nil {
		b.AddError(field, "Duration must be a valid number", value)
		return 0, false
	}
	if n < minMinutes {
		b.AddError(field, fmt.Sprintf("Duration must be at least %d minutes", minMinutes), value)
		return 0, false
	}
	if n > maxMinutes {
		b.AddError(field, fmt.Sprintf("Duration must be at most %d minutes", maxMinutes), value)
		return 0, false
	}
	if n%15 != 0 {
		b.AddError(field, "Duration should be in 15-minute increments", value)
		return 0, false
	}
	return n, true
}

// GroupSize accepts a whole number of people in [minSize, maxSize].
func (v *Validator) GroupSize(b *Builder, field string, value any, minSize, maxSize int) (int, bool) {
	if value == nil {
		b.AddError(field, "Group size is required", value)
		return 0, false
	}
	n, err := toInt(value)
	if err != nil {
		b.AddError(field, "Group size must be a valid number", value)
		return 0, false
	}
	if n < minSize {
		b.AddError(field, fmt.Sprintf("Group size must be at least %d", minSize), value)
		return 0, false
	}
	if n > maxSize {
		b.AddError(field, fmt.Sprintf("Group size must be at most %d", maxSize), value)
		return 0, false
	}
	return n, true
}

// List accepts a list of [minItems, maxItems] elements. Strings are trimmed
// and blank ones dropped after the length check; other elements pass through.
func (v *Validator) List(b *Builder, field string, value any, minItems, maxItems int) ([]any, bool) {
	var items []any
	switch t := value.(type) {
	case nil:
		items = []any{}
	case []any:
		items = t
	case []string:
		items = make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
	default:
		b.AddError(field, "Must be a list", value)
		return nil, false
	}

	if len(items) < minItems {
		b.AddError(field, fmt.Sprintf("Must have at least %d items", minItems), value)
		return nil, false
	}
	if len(items) > maxItems {
		b.AddError(field, fmt.Sprintf("Must have at most %d items", maxItems), value)
		return nil, false
	}

	cleaned := make([]any, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			it = s
		}
		cleaned = append(cleaned, it)
	}
	return cleaned, true
}

// UUID accepts any textual UUID form and returns the canonical lowercase one.
func (v *Validator) UUID(b *Builder, field, s string) (string, bool) {
	if s == "" {
		b.AddError(field, "ID is required", s)
		return "", false
	}
	s = strings.TrimSpace(s)
	id, err := uuid.Parse(s)
	if err != nil {
		b.AddError(field, "Invalid ID format", s)
		return "", false
	}
	normalized := strings.ToLower(id.String())
	if !canonicalID.MatchString(normalized) {
		b.AddError(field, "Invalid ID format", s)
		return "", false
	}
	return normalized, true
}

// Rating accepts a number from 1 to 5 and rounds it to one decimal.
func (v *Validator) Rating(b *Builder, field string, value any) (float64, bool) {
	f, err := toFloat(value)
	if err != nil {
		b.AddError(field, "Rating must be a number", value)
		return 0, false
	}
	if !(f >= 1 && f <= 5) {
		b.AddError(field, "Rating must be between 1 and 5", value)
		return 0, false
	}
	return decimal.NewFromFloat(f).Round(1).InexactFloat64(), true
}

// AvailabilityStatus checks a guide's availability, case-insensitively.
func (v *Validator) AvailabilityStatus(b *Builder, field, status string) (string, bool) {
	return oneOf(b, field, status, "Status", availabilityStatuses)
}

// VerificationStatus checks a vendor's verification state, case-insensitively.
func (v *Validator) VerificationStatus(b *Builder, field, status string) (string, bool) {
	return oneOf(b, field, status, "Verification status", verificationStatuses)
}

// BookingStatus checks a booking's lifecycle state, case-insensitively.
func (v *Validator) BookingStatus(b *Builder, field, status string) (string, bool) {
	return oneOf(b, field, status, "Booking status", bookingStatuses)
}

func oneOf(b *Builder, field, value, label string, allowed []string) (string, bool) {
	lower := strings.ToLower(value)
	for _, a := range allowed {
		if lower == a {
			return lower, true
		}
	}
	b.AddError(field, fmt.Sprintf("%s must be one of: %s", label, strings.Join(allowed, ", ")), value)
	return "", false
}

// PaymentAmount checks an amount the way Price does, bounded to [1, 100000],
// and converts it to the currency's smallest unit (paise, cents).
func (v *Validator) PaymentAmount(b *Builder, amount any, currency string) (int64, bool) {
	if _, ok := v.Price(b, "amount", amount, 1, 100000); !ok {
		return 0, false
	}
	switch strings.ToUpper(currency) {
	case "INR", "USD":
		s, _ := toText(amount)
		d, _ := decimal.NewFromString(s)
		return d.Round(2).Shift(2).IntPart(), true
	default:
		b.AddError("currency", "Unsupported currency: "+currency, currency)
		return 0, false
	}
}

// deref unwraps *string so error values are plain data.
func deref(value any) any {
	if p, ok := value.(*string); ok {
		if p == nil {
			return nil
		}
		return *p
	}
	return value
}
