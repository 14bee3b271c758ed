package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hsr-guess/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]schema.Attribute{
		{Key: "name", Label: "Character", Type: schema.TypeImage, ImageKey: "image", Mandatory: true},
		{Key: "rarity", Label: "Rarity", Type: schema.TypeText, Ordinal: true},
		{Key: "release", Label: "Release", Type: schema.TypeYear},
		{Key: "factions", Label: "Factions", Type: schema.TypeList, InfoKey: "factions_verbose"},
	})
	require.NoError(t, err)
	return s
}

const twoChars = `[
  {"id": 1, "name": "A", "image": "a.png", "rarity": "4", "release": "2021-01", "factions": ["X"]},
  {"id": "2", "name": "B", "rarity": 5, "release": "2020-05", "factions": ["X", "Y"], "factions_verbose": ["Xeno", "Yonder"]}
]`

func TestParse_TwoCharacters(t *testing.T) {
	d, err := Parse(strings.NewReader(twoChars), testSchema(t))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	a, ok := d.ByID("1")
	require.True(t, ok)
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, "4", a.Value("rarity").String())
	assert.True(t, a.Value("factions").IsList())

	b, ok := d.ByID("2")
	require.True(t, ok)
	assert.Equal(t, "5", b.Value("rarity").String())
	assert.Equal(t, []string{"X", "Y"}, b.Value("factions").Items())
}

func TestParse_Errors(t *testing.T) {
	sch := testSchema(t)
	tests := []struct {
		name string
		body string
	}{
		{"empty source", "   "},
		{"not json", "{{"},
		{"not an array", `{"id":1}`},
		{"missing id", `[{"name":"A","rarity":"4","release":"x","factions":[]}]`},
		{"missing name", `[{"id":1,"rarity":"4","release":"x","factions":[]}]`},
		{"missing attribute", `[{"id":1,"name":"A","rarity":"4","release":"x"}]`},
		{"duplicate id", `[
			{"id":1,"name":"A","rarity":"4","release":"x","factions":[]},
			{"id":"1","name":"B","rarity":"4","release":"x","factions":[]}]`},
		{"nested object", `[{"id":1,"name":"A","rarity":{"n":4},"release":"x","factions":[]}]`},
		{"null record", `[null]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.body), sch)
			assert.ErrorIs(t, err, ErrDataLoad)
		})
	}
}

func TestParse_EmptyArray(t *testing.T) {
	_, err := Parse(strings.NewReader("[]"), testSchema(t))
	assert.ErrorIs(t, err, ErrEmptyDataset)
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestValue_Canonicalisation(t *testing.T) {
	d, err := Parse(strings.NewReader(`[
		{"id": 7.0, "name": "A", "rarity": 5.0, "release": null, "factions": "Solo", "flag": true}
	]`), testSchema(t))
	require.NoError(t, err)

	c, ok := d.ByID("7")
	require.True(t, ok)
	assert.Equal(t, "5", c.Value("rarity").String())
	assert.True(t, c.Value("release").Empty())
	assert.False(t, c.Value("factions").IsList())
	assert.Equal(t, []string{"Solo"}, c.Value("factions").Items())
	assert.Equal(t, "true", c.Value("flag").String())
}

func TestCharacter_ImageAndInfo(t *testing.T) {
	sch := testSchema(t)
	d, err := Parse(strings.NewReader(twoChars), sch)
	require.NoError(t, err)

	name, _ := sch.Lookup("name")
	factions, _ := sch.Lookup("factions")
	a, _ := d.ByID("1")
	b, _ := d.ByID("2")

	assert.Equal(t, "a.png", a.Image(name))
	assert.Equal(t, "", b.Image(name))
	assert.Equal(t, []string{"X"}, a.Info(factions))
	assert.Equal(t, []string{"Xeno", "Yonder"}, b.Info(factions))
}

func TestSearch(t *testing.T) {
	d, err := Embedded(nil)
	require.NoError(t, err)

	got := d.Search("dan heng", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Dan Heng", got[0].Name)
	assert.Equal(t, "Dan Heng • Imbibitor Lunae", got[1].Name)

	assert.Len(t, d.Search("DAN", 1), 1)
	assert.Empty(t, d.Search("", 0))
	assert.Empty(t, d.Search("   ", 0))
	assert.Empty(t, d.Search("nobody", 0))
}

func TestEmbedded_MatchesDefaultSchema(t *testing.T) {
	sch, err := schema.Default()
	require.NoError(t, err)
	d, err := Embedded(sch)
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 10)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(twoChars), 0o644))

	d, err := FromFile(path, testSchema(t))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.json"), testSchema(t))
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(twoChars))
	}))
	defer srv.Close()

	d, err := Load(context.Background(), Source{URL: srv.URL + "/data.json"}, testSchema(t))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/nope", time.Second, testSchema(t))
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestFetch_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fetch(ctx, srv.Client(), srv.URL, time.Second, testSchema(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataLoad))
}
