// Package validation checks and normalizes untrusted booking-platform payloads.
//
// Field checks never return errors and never panic: every failure becomes a
// FieldError on the Builder passed in, and the check returns ok=false with a
// zero value. Checks never write cleaned data themselves; the entity
// validators decide which key a cleaned value is stored under.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	playvalidator "github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/geo"
)

// Clock returns the current time. Date checks use its calendar day.
type Clock func() time.Time

// AreaChecker decides whether a point lies inside the service area.
type AreaChecker interface {
	IsWithinServiceArea(p domain.GeoPoint, bufferKm float64) bool
}

// Options configures a Validator. Zero fields take the documented defaults.
type Options struct {
	// Clock defaults to time.Now.
	Clock Clock
	// Area defaults to the Guwahati service area.
	Area AreaChecker
	// BufferKm is added to the service radius; nil means geo.DefaultBufferKm.
	BufferKm *float64
	// PhoneRegion is the ISO region used to parse numbers without a
	// country code. Defaults to "IN".
	PhoneRegion string
	// AreaName appears in out-of-area messages. Defaults to "Guwahati".
	AreaName string
}

// Validator runs field checks and entity rules. It holds no per-call state
// and is safe for concurrent use.
type Validator struct {
	clock       Clock
	area        AreaChecker
	bufferKm    float64
	phoneRegion string
	areaName    string
	syntax      *playvalidator.Validate
}

// New creates a Validator.
func New(opts Options) *Validator {
	v := &Validator{
		clock:       opts.Clock,
		area:        opts.Area,
		bufferKm:    geo.DefaultBufferKm,
		phoneRegion: strings.ToUpper(strings.TrimSpace(opts.PhoneRegion)),
		areaName:    opts.AreaName,
		syntax:      playvalidator.New(),
	}
	if v.clock == nil {
		v.clock = time.Now
	}
	if v.area == nil {
		v.area = geo.NewLocator(geo.GuwahatiArea(), geo.GuwahatiReference())
	}
	if opts.BufferKm != nil {
		v.bufferKm = *opts.BufferKm
	}
	if v.phoneRegion == "" {
		v.phoneRegion = "IN"
	}
	if v.areaName == "" {
		v.areaName = "Guwahati"
	}
	return v
}

// ErrUnknownEntity is returned by Validate for an entity kind it has no rules for.
var ErrUnknownEntity = errors.New("unknown entity")

// Validate sanitizes raw, decodes it into the entity's request type and runs
// the entity rules. Only an unknown entity or an undecodable payload yields an
// error; rule failures are reported in the Result.
func (v *Validator) Validate(entity domain.Entity, raw map[string]any) (Result, error) {
	payload := SanitizePayload(raw)

	switch entity {
	case domain.EntityUserRegistration:
		req, err := domain.UserRegistrationFromMap(payload)
		if err != nil {
			return Result{}, err
		}
		return v.UserRegistration(req), nil
	case domain.EntityItinerary:
		req, err := domain.ItineraryCreateFromMap(payload)
		if err != nil {
			return Result{}, err
		}
		return v.ItineraryCreate(req), nil
	case domain.EntityBooking:
		req, err := domain.BookingCreateFromMap(payload)
		if err != nil {
			return Result{}, err
		}
		return v.BookingCreate(req), nil
	case domain.EntityVendorProfile:
		req, err := domain.VendorProfileFromMap(payload)
		if err != nil {
			return Result{}, err
		}
		return v.VendorProfile(req), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
}

// missing reports whether a required value is absent: nil, a nil pointer, or
// a blank string.
func missing(value any) bool {
	switch t := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case *string:
		return t == nil || strings.TrimSpace(*t) == ""
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// present reports whether an optional value was supplied in a meaningful
// form. Empty strings, zero numbers, false and empty containers count as
// absent.
func present(value any) bool {
	switch t := value.(type) {
	case nil:
		return false
	case *string:
		return t != nil && *t != ""
	case bool:
		return t
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

var errNotNumeric = errors.New("not a number")

// toFloat coerces an untrusted scalar to float64.
func toFloat(value any) (float64, error) {
	switch t := value.(type) {
	case nil:
		return 0, errNotNumeric
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	case json.Number:
		return strconv.ParseFloat(strings.TrimSpace(t.String()), 64)
	}
	return cast.ToFloat64E(value)
}

// toInt coerces an untrusted scalar to int. Strings must hold an integer;
// floats are truncated toward zero.
func toInt(value any) (int, error) {
	switch t := value.(type) {
	case nil:
		return 0, errNotNumeric
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	case json.Number:
		return strconv.Atoi(strings.TrimSpace(t.String()))
	case float64:
		return truncate(t)
	case float32:
		return truncate(float64(t))
	}
	return cast.ToIntE(value)
}

func truncate(f float64) (int, error) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, errNotNumeric
	case f >= math.MaxInt64:
		return math.MaxInt, nil
	case f <= math.MinInt64:
		return math.MinInt, nil
	}
	return int(f), nil
}

// toText renders an untrusted scalar the way it was written.
func toText(value any) (string, bool) {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s), true
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
