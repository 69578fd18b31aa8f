package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes a fresh command tree and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestValidate_ValidFromStdin(t *testing.T) {
	out, err := run(t,
		`{"email":"Priya@Example.com","password":"Passw0rd!","full_name":"priya sharma"}`,
		"validate", "user_registration")
	require.NoError(t, err)

	res := decode(t, out)
	assert.Equal(t, true, res["is_valid"])
	cleaned := res["cleaned_data"].(map[string]any)
	assert.Equal(t, "priya@example.com", cleaned["email"])
	assert.Equal(t, "Priya Sharma", cleaned["full_name"])
}

func TestValidate_InvalidFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"email":"priya@example.com"}`), 0o600))

	out, err := run(t, "", "validate", "user_registration", path)
	require.ErrorIs(t, err, ErrInvalidPayload)

	res := decode(t, out)
	assert.Equal(t, false, res["is_valid"])
	assert.NotEmpty(t, res["errors"])
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"unknown entity", `{}`, []string{"validate", "spaceship"}, "unknown entity"},
		{"not an object", `[1,2]`, []string{"validate", "booking"}, "JSON object"},
		{"no entity", ``, []string{"validate"}, "arg"},
		{"missing file", ``, []string{"validate", "booking", "/nonexistent/x.json"}, "read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSanitize(t *testing.T) {
	out, err := run(t,
		`{"title":"<script>alert(1)</script>Hello","password":"Pa#ss'w0rd!"}`,
		"sanitize", "-")
	require.NoError(t, err)

	got := decode(t, out)
	assert.Equal(t, "Hello", got["title"])
	assert.Equal(t, "Pa#ss'w0rd!", got["password"])
}

func TestEntities(t *testing.T) {
	out, err := run(t, "", "entities")
	require.NoError(t, err)
	assert.Equal(t, "user_registration\nitinerary\nbooking\nvendor_profile\n", out)
}

func TestGeoNearest(t *testing.T) {
	out, err := run(t, "", "geo", "nearest", "--lat", "26.1664", "--lng", "91.7065")
	require.NoError(t, err)

	m := decode(t, out)
	assert.Equal(t, "kamakhya_temple", m["id"])
	assert.InDelta(t, 0, m["distance_km"], 0.01)
}

func TestGeoNearest_RequiresPoint(t *testing.T) {
	_, err := run(t, "", "geo", "nearest", "--lat", "26.1664")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lng")
}

func TestGeoMeetingPoints_Radius(t *testing.T) {
	out, err := run(t, "", "geo", "meeting-points", "--lat", "26.1860", "--lng", "91.7450")
	require.NoError(t, err)
	assert.NotZero(t, decode(t, out)["count"])

	out, err = run(t, "", "geo", "meeting-points", "--lat", "26.1860", "--lng", "91.7450", "--max-km", "0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, decode(t, out)["count"])
}

func TestGeoFormat(t *testing.T) {
	out, err := run(t, "", "geo", "format", "--lat", "26.1445", "--lng", "91.7362")
	require.NoError(t, err)
	assert.Equal(t, "26.144500, 91.736200\n", out)

	_, err = run(t, "", "geo", "format", "--lat", "26.1445", "--lng", "91.7362", "--format", "utm")
	require.Error(t, err)
}

func TestGeoSafety_RejectsUnknownTime(t *testing.T) {
	_, err := run(t, "", "geo", "safety", "--lat", "26.1445", "--lng", "91.7362", "--time", "dusk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day or night")
}

func TestGeoRoute(t *testing.T) {
	in := `{"stops":[
		{"name":"Kamakhya","coordinates":{"lat":26.1664,"lng":91.7065}},
		{"name":"Umananda","coordinates":{"lat":26.1953,"lng":91.7459}}
	]}`
	out, err := run(t, in, "geo", "route")
	require.NoError(t, err)

	m := decode(t, out)
	stops := m["route"].([]any)
	assert.Len(t, stops, 2)
}

func TestGeoArea(t *testing.T) {
	out, err := run(t, "", "geo", "area", "--lat", "26.1445", "--lng", "91.7362")
	require.NoError(t, err)

	m := decode(t, out)
	assert.Equal(t, true, m["within"])
	area := m["area"].(map[string]any)
	assert.Equal(t, "Guwahati", area["city"])
}

func TestEventsTail_RejectsUnknownEntity(t *testing.T) {
	_, err := run(t, "", "events", "tail", "--entity", "spaceship")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entity")
}
