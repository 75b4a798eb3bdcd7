package catalog

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"bandori-index/feature/catalog/artifact"
	"bandori-index/feature/catalog/collection"
	"bandori-index/feature/catalog/graph"
	"bandori-index/feature/catalog/models"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func regional(jp, en string) models.Regional[string] {
	r := models.Regional[string]{JP: &jp}
	if en != "" {
		r.EN = &en
	}
	return r
}

func writeCatalog(t *testing.T, fs afero.Fs) {
	released := time.Date(2017, 3, 16, 6, 0, 0, 0, time.UTC)
	set := &collection.Set{
		Bands: collection.New(map[int]models.Band{1: {ID: 1, Name: regional("Poppin'Party", "Poppin'Party")}}),
		Characters: collection.New(map[int]models.Character{
			1: {ID: 1, Name: regional("戸山 香澄", "Kasumi Toyama"), BandID: models.Ptr(1), ColorCode: "#FF5522"},
		}),
		Cards: collection.New(map[int]models.Card{
			1: {ID: 1, CharacterID: 1, Rarity: 1, Attribute: models.AttributePowerful, Type: "initial", ResourceSetName: "res001001", Name: regional("はじまり", ""), ReleasedAt: models.Regional[time.Time]{JP: &released}},
			2: {ID: 2, CharacterID: 1, Rarity: 4, Attribute: models.AttributeHappy, Type: "permanent", ResourceSetName: "res001002", Name: regional("ときめき", "")},
		}),
	}
	g, err := graph.Resolve(set)
	require.NoError(t, err)

	data, err := artifact.Marshal(g.Sections())
	require.NoError(t, err)
	manifest, err := graph.EncodeManifest(g.Manifest())
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "out/data.json", data, 0o644))
	require.NoError(t, afero.WriteFile(fs, "out/manifest.json", manifest, 0o644))
}

func setupTestApp(t *testing.T, load bool) (*fiber.App, afero.Fs) {
	fs := afero.NewMemMapFs()
	writeCatalog(t, fs)

	feature := NewFeature(NewDirSource(fs, "out"), Config{Output: "data.json", Manifest: "manifest.json"}, zap.NewNop())
	if load {
		require.NoError(t, feature.Service().Load(context.Background()))
	}

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, fs
}

func decodeBody(t *testing.T, app *fiber.App, method, target string, wantStatus int, out any) {
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func TestHandleIDs(t *testing.T) {
	app, _ := setupTestApp(t, true)

	var body struct {
		Kind string `json:"kind"`
		IDs  []int  `json:"ids"`
	}
	decodeBody(t, app, "GET", "/catalog/cards", 200, &body)
	assert.Equal(t, "cards", body.Kind)
	assert.Equal(t, []int{1, 2}, body.IDs)

	decodeBody(t, app, "GET", "/catalog/events", 200, &body)
	assert.Empty(t, body.IDs)

	decodeBody(t, app, "GET", "/catalog/stamps", 404, nil)
}

func TestHandleRecord(t *testing.T) {
	app, _ := setupTestApp(t, true)

	var card map[string]any
	decodeBody(t, app, "GET", "/catalog/cards/1", 200, &card)
	assert.Equal(t, float64(1), card["rarity"])

	character, ok := card["character"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "#FF5522", character["colorCode"])

	released, ok := card["releasedAt"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2017-03-16T06:00:00Z", released["jp"])

	decodeBody(t, app, "GET", "/catalog/cards/99", 404, nil)
}

func TestHandleAssets(t *testing.T) {
	app, _ := setupTestApp(t, true)

	var all, bands []graph.AssetEntry
	decodeBody(t, app, "GET", "/catalog/assets", 200, &all)
	decodeBody(t, app, "GET", "/catalog/assets?type=band", 200, &bands)

	assert.NotEmpty(t, all)
	require.Len(t, bands, 1)
	assert.Equal(t, "/res/icon/band_1.svg", bands[0].Pathname)
}

func TestHandleArtifact(t *testing.T) {
	app, fs := setupTestApp(t, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/data.json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	want, err := afero.ReadFile(fs, "out/data.json")
	require.NoError(t, err)

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHandleReload(t *testing.T) {
	app, fs := setupTestApp(t, false)

	decodeBody(t, app, "GET", "/catalog/bands", 503, nil)
	decodeBody(t, app, "POST", "/catalog/reload", 200, nil)
	decodeBody(t, app, "GET", "/catalog/bands", 200, nil)

	// A broken artifact keeps the previous snapshot.
	require.NoError(t, afero.WriteFile(fs, "out/data.json", []byte("{"), 0o644))
	decodeBody(t, app, "POST", "/catalog/reload", 500, nil)
	decodeBody(t, app, "GET", "/catalog/bands/1", 200, nil)
}

func TestDirSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dir/a.json", []byte("[]"), 0o644))

	src := NewDirSource(fs, "dir")
	data, err := src.Read(context.Background(), "a.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = src.Read(context.Background(), "b.json")
	assert.ErrorContains(t, err, "failed to read b.json")
}
