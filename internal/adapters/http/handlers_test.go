package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/heritagepass/internal/adapters/http"
	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/geo"
	"github.com/samirrijal/heritagepass/internal/core/usecases"
	"github.com/samirrijal/heritagepass/internal/core/validation"
)

// ---- Mocks ----

type mockPinger struct{ err error }

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

type mockBroker struct{ connected bool }

func (m *mockBroker) Connected() bool { return m.connected }

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func newValidator() *validation.Validator {
	return validation.New(validation.Options{
		Clock: func() time.Time { return time.Date(2030, 6, 15, 10, 0, 0, 0, time.UTC) },
	})
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	loc := geo.NewLocator(geo.GuwahatiArea(), geo.GuwahatiReference())
	d := &handler.Dependencies{
		Validation: usecases.NewValidationService(newValidator(), nil, "test"),
		Geo:        usecases.NewGeoService(loc, nil, 60),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, readBody(t, resp.Body)
}

func post(t *testing.T, app *fiber.App, target, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, readBody(t, resp.Body)
}

func decode(t *testing.T, body []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

// ---- Health ----

func TestHealth(t *testing.T) {
	code, body := get(t, setupApp(makeDeps()), "/v1/health")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result map[string]any
	decode(t, body, &result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", result["status"])
	}
}

func TestReady_NothingConfigured(t *testing.T) {
	code, body := get(t, setupApp(makeDeps()), "/v1/ready")
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
}

func TestReady_DependencyDown(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.DB = &mockPinger{}
		d.Cache = &mockPinger{err: errors.New("connection refused")}
		d.NATS = &mockBroker{connected: true}
	})
	code, body := get(t, setupApp(deps), "/v1/ready")
	if code != 503 {
		t.Fatalf("expected 503, got %d", code)
	}
	var result struct {
		Checks map[string]string `json:"checks"`
	}
	decode(t, body, &result)
	if result.Checks["database"] != "ok" || result.Checks["nats"] != "ok" {
		t.Errorf("unexpected checks %v", result.Checks)
	}
	if !strings.HasPrefix(result.Checks["cache"], "error:") {
		t.Errorf("expected cache error, got %q", result.Checks["cache"])
	}
}

// ---- Validation ----

func TestValidate_UserRegistration(t *testing.T) {
	code, body := post(t, setupApp(makeDeps()), "/v1/validate/user_registration",
		`{"email":" Priya@Example.com ","password":"Passw0rd!","full_name":"priya sharma"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}

	var res validation.Result
	decode(t, body, &res)
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if res.CleanedData["email"] != "priya@example.com" {
		t.Errorf("expected normalised email, got %v", res.CleanedData["email"])
	}
	if _, ok := res.CleanedData["password"]; ok {
		t.Error("password must never be echoed")
	}
}

func TestValidate_Invalid(t *testing.T) {
	code, body := post(t, setupApp(makeDeps()), "/v1/validate/user_registration",
		`{"email":"x@tempmail.com","password":"password","full_name":"Priya"}`)
	if code != 422 {
		t.Fatalf("expected 422, got %d", code)
	}

	var res handler.ValidationError
	decode(t, body, &res)
	if res.Code != "validation_failed" || res.Status != 422 {
		t.Errorf("unexpected envelope %+v", res.APIError)
	}
	if res.RequestID == "" {
		t.Error("expected request id")
	}
	fields := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		fields = append(fields, e.Field)
	}
	if strings.Join(fields, ",") != "email,password" {
		t.Errorf("expected email,password errors, got %v", fields)
	}
}

func TestValidate_ItineraryMissingRequired(t *testing.T) {
	code, body := post(t, setupApp(makeDeps()), "/v1/validate/itinerary",
		`{"title":"Temple Walk","price_per_person":"abc"}`)
	if code != 422 {
		t.Fatalf("expected 422, got %d", code)
	}
	var res handler.ValidationError
	decode(t, body, &res)

	// Only the missing required fields are reported; price is never checked.
	for _, e := range res.Errors {
		if e.Message != "This field is required" {
			t.Errorf("unexpected error %+v", e)
		}
		if e.Field == "price_per_person" || e.Field == "title" {
			t.Errorf("present field reported: %s", e.Field)
		}
	}
	if len(res.Errors) != 3 {
		t.Errorf("expected 3 missing fields, got %d", len(res.Errors))
	}
}

func TestValidate_UnknownEntity(t *testing.T) {
	code, body := post(t, setupApp(makeDeps()), "/v1/validate/spaceship", `{}`)
	if code != 404 {
		t.Fatalf("expected 404, got %d", code)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %s", apiErr.Code)
	}
}

func TestValidate_BadBody(t *testing.T) {
	app := setupApp(makeDeps())
	for _, body := range []string{`not json`, `[1,2]`, `null`} {
		code, _ := post(t, app, "/v1/validate/booking", body)
		if code != 400 {
			t.Errorf("body %q: expected 400, got %d", body, code)
		}
	}
}

func TestSanitize(t *testing.T) {
	code, body := post(t, setupApp(makeDeps()), "/v1/sanitize",
		`{"bio":"<script>alert(1)</script>Hello","tags":["a<b"],"password":"<p>"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result struct {
		Data map[string]any `json:"data"`
	}
	decode(t, body, &result)
	if result.Data["bio"] != "Hello" {
		t.Errorf("expected Hello, got %v", result.Data["bio"])
	}
	if tags := result.Data["tags"].([]any); tags[0] != "a&lt;b" {
		t.Errorf("expected escaped tag, got %v", tags[0])
	}
	if result.Data["password"] != "<p>" {
		t.Errorf("password must be untouched, got %v", result.Data["password"])
	}
}

func TestEntities(t *testing.T) {
	code, body := get(t, setupApp(makeDeps()), "/v1/entities")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result struct {
		Entities []string `json:"entities"`
	}
	decode(t, body, &result)
	if len(result.Entities) != 4 {
		t.Errorf("expected 4 entities, got %v", result.Entities)
	}
}

// ---- Geo ----

func TestNearestLandmark_Success(t *testing.T) {
	code, body := get(t, setupApp(makeDeps()), "/v1/geo/nearest-landmark?lat=26.1664&lng=91.7065")
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var m domain.LandmarkMatch
	decode(t, body, &m)
	if m.ID != "kamakhya_temple" || m.DistanceKm != 0 {
		t.Errorf("unexpected match %+v", m)
	}
}

func TestNearestLandmark_BadParams(t *testing.T) {
	app := setupApp(makeDeps())
	for _, q := range []string{"", "?lat=26.1", "?lat=abc&lng=91.7", "?lat=95&lng=91.7"} {
		code, _ := get(t, app, "/v1/geo/nearest-landmark"+q)
		if code != 400 {
			t.Errorf("query %q: expected 400, got %d", q, code)
		}
	}
}

func TestNearestLandmark_ZeroCoordinatesAccepted(t *testing.T) {
	code, _ := get(t, setupApp(makeDeps()), "/v1/geo/nearest-landmark?lat=0&lng=0")
	if code != 200 {
		t.Errorf("expected 200 for (0,0), got %d", code)
	}
}

func TestMeetingPoints(t *testing.T) {
	code, body := get(t, setupApp(makeDeps()), "/v1/geo/meeting-points?lat=26.1839&lng=91.7464&max_km=1")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result struct {
		MeetingPoints []domain.NearbyMeetingPoint `json:"meeting_points"`
		Count         int                         `json:"count"`
	}
	decode(t, body, &result)
	if result.Count == 0 || result.MeetingPoints[0].ID != "kachari_ghat" {
		t.Errorf("expected kachari_ghat first, got %+v", result.MeetingPoints)
	}
	for _, mp := range result.MeetingPoints {
		if mp.DistanceKm > 1 {
			t.Errorf("%s is %.2f km away", mp.ID, mp.DistanceKm)
		}
	}
}

func TestMeetingPoints_RadiusParam(t *testing.T) {
	app := setupApp(makeDeps())
	near := "/v1/geo/meeting-points?lat=26.1860&lng=91.7450"

	var result struct {
		Count int `json:"count"`
	}

	code, body := get(t, app, near)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	decode(t, body, &result)
	if result.Count == 0 {
		t.Error("expected the default radius to find meeting points")
	}

	code, body = get(t, app, near+"&max_km=0")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	decode(t, body, &result)
	if result.Count != 0 {
		t.Errorf("expected no meeting points within 0 km, got %d", result.Count)
	}

	if code, _ := get(t, app, near+"&max_km=far"); code != 400 {
		t.Errorf("expected 400 for non-numeric max_km, got %d", code)
	}
	if code, _ := get(t, app, near+"&max_km=-1"); code != 400 {
		t.Errorf("expected 400 for negative max_km, got %d", code)
	}
}

func TestRoute(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := post(t, app, "/v1/geo/route", `{"stops":[]}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var empty domain.Route
	decode(t, body, &empty)
	if empty.StopsCount != 0 || empty.TotalDistanceKm != 0 {
		t.Errorf("expected empty route, got %+v", empty)
	}

	code, body = post(t, app, "/v1/geo/route", `{
		"stops": [
			{"id":"museum","coordinates":{"lat":26.1872,"lng":91.7461}},
			{"id":"kamakhya","coordinates":{"lat":26.1664,"lng":91.7065}},
			{"id":"riverfront","coordinates":{"lat":26.1839,"lng":91.7464}}
		]
	}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var route domain.Route
	decode(t, body, &route)
	var ids []string
	for _, s := range route.Stops {
		ids = append(ids, s.ID)
	}
	if strings.Join(ids, ",") != "museum,riverfront,kamakhya" {
		t.Errorf("unexpected order %v", ids)
	}

	code, _ = post(t, app, "/v1/geo/route", `{"stops":[{"id":"x","coordinates":{"lat":120,"lng":0}}]}`)
	if code != 400 {
		t.Errorf("expected 400 for invalid stop, got %d", code)
	}
}

func TestServiceArea(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := get(t, app, "/v1/geo/service-area")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var info struct {
		Area   domain.ServiceArea `json:"area"`
		Within *bool              `json:"within"`
	}
	decode(t, body, &info)
	if info.Area.City != "Guwahati" || info.Within != nil {
		t.Errorf("unexpected response %s", body)
	}

	_, body = get(t, app, "/v1/geo/service-area?lat=26.1839&lng=91.7464")
	decode(t, body, &info)
	if info.Within == nil || !*info.Within {
		t.Errorf("expected center to be within, got %s", body)
	}

	_, body = get(t, app, "/v1/geo/service-area?lat=28.6139&lng=77.2090")
	info.Within = nil
	decode(t, body, &info)
	if info.Within == nil || *info.Within {
		t.Errorf("expected Delhi to be outside, got %s", body)
	}
}

func TestTravelTime(t *testing.T) {
	q := url.Values{
		"from_lat": {"26.1839"}, "from_lng": {"91.7464"},
		"to_lat": {"26.1664"}, "to_lng": {"91.7065"},
		"mode": {"driving"},
	}
	code, body := get(t, setupApp(makeDeps()), "/v1/geo/travel-time?"+q.Encode())
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var est domain.TravelEstimate
	decode(t, body, &est)
	if est.Mode != "driving" || est.SpeedKmh != 30 || est.DistanceKm <= 0 {
		t.Errorf("unexpected estimate %+v", est)
	}
}

func TestSafety(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := get(t, app, "/v1/geo/safety?lat=26.1840&lng=91.7480&time_of_day=night")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var report domain.SafetyReport
	decode(t, body, &report)
	if report.Score < 1 || report.Score > 10 {
		t.Errorf("score out of range: %d", report.Score)
	}
	if report.NearestPolice == nil || report.NearestPolice.Name != "Paltan Bazaar Police Station" {
		t.Errorf("unexpected nearest police %+v", report.NearestPolice)
	}

	code, _ = get(t, app, "/v1/geo/safety?lat=26.1840&lng=91.7480&time_of_day=dusk")
	if code != 400 {
		t.Errorf("expected 400 for unknown time_of_day, got %d", code)
	}
}

func TestFormat(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := get(t, app, "/v1/geo/format?lat=26.1839&lng=91.7464&format=dms")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result struct {
		Formatted string `json:"formatted"`
	}
	decode(t, body, &result)
	if result.Formatted != `26°11'2.04"N, 91°44'47.04"E` {
		t.Errorf("unexpected dms %q", result.Formatted)
	}

	code, _ = get(t, app, "/v1/geo/format?lat=26.1839&lng=91.7464&format=utm")
	if code != 400 {
		t.Errorf("expected 400 for unknown format, got %d", code)
	}
}

func TestDescribe(t *testing.T) {
	code, body := get(t, setupApp(makeDeps()), "/v1/geo/describe?lat=26.1664&lng=91.7065")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var addr domain.Address
	decode(t, body, &addr)
	if addr.FormattedAddress != "Near Kamakhya Temple, Guwahati, Assam" {
		t.Errorf("unexpected address %q", addr.FormattedAddress)
	}
}

func TestListLandmarks_Pagination(t *testing.T) {
	app := setupApp(makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/reference/landmarks?offset=2&limit=3", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Data       []domain.Landmark  `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	decode(t, readBody(t, resp.Body), &result)
	if len(result.Data) != 3 || result.Pagination.Total != 10 || result.Pagination.Offset != 2 {
		t.Errorf("unexpected page %+v", result.Pagination)
	}
	link := resp.Header.Get("Link")
	if !strings.Contains(link, `offset=5&limit=3>; rel="next"`) || !strings.Contains(link, `rel="prev"`) {
		t.Errorf("unexpected Link header %q", link)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("unexpected Cache-Control %q", cc)
	}
}

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/geo/service-area", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}

	req := httptest.NewRequest("GET", "/v1/geo/service-area", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

// ---- GraphQL ----

func TestGraphQL_NearestLandmark(t *testing.T) {
	code, body := post(t, setupApp(makeDeps()), "/graphql",
		`{"query":"{ nearestLandmark(lat: 26.1664, lng: 91.7065) { id name distance_km coordinates { lat } } }"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result struct {
		Data struct {
			NearestLandmark struct {
				ID          string  `json:"id"`
				DistanceKm  float64 `json:"distance_km"`
				Coordinates struct {
					Lat float64 `json:"lat"`
				} `json:"coordinates"`
			} `json:"nearestLandmark"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	decode(t, body, &result)
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	if result.Data.NearestLandmark.ID != "kamakhya_temple" || result.Data.NearestLandmark.Coordinates.Lat != 26.1664 {
		t.Errorf("unexpected result %s", body)
	}
}

func TestGraphQL_ValidateMutation(t *testing.T) {
	query := `mutation($p: String!) { validate(entity: "user_registration", payload: $p) { is_valid errors { field message } } }`
	reqBody, _ := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]any{"p": `{"email":"bad","password":"Passw0rd!","full_name":"Asha"}`},
	})
	code, body := post(t, setupApp(makeDeps()), "/graphql", string(reqBody))
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result struct {
		Data struct {
			Validate struct {
				IsValid bool `json:"is_valid"`
				Errors  []struct {
					Field string `json:"field"`
				} `json:"errors"`
			} `json:"validate"`
		} `json:"data"`
	}
	decode(t, body, &result)
	if result.Data.Validate.IsValid || len(result.Data.Validate.Errors) != 1 || result.Data.Validate.Errors[0].Field != "email" {
		t.Errorf("unexpected result %s", body)
	}
}

func TestGraphQL_BadRequest(t *testing.T) {
	code, _ := post(t, setupApp(makeDeps()), "/graphql", `{}`)
	if code != 400 {
		t.Errorf("expected 400, got %d", code)
	}
}
