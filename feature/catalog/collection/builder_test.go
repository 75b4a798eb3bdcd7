package collection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bandori-index/core/fetch"
	"bandori-index/feature/catalog/models"
	"bandori-index/feature/catalog/schema"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuild(t *testing.T) {
	b := NewBuilder(newFakeUpstream(cloneDocs()), zap.NewNop(), Options{})

	set, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1}, set.Bands.IDs())
	assert.Equal(t, []int{1, 2}, set.Characters.IDs())
	assert.Equal(t, []int{10, 12}, set.Cards.IDs())
	assert.Equal(t, []int{1}, set.Events.IDs())
	assert.Equal(t, []int{1}, set.Gachas.IDs())
	assert.Equal(t, []int{1, 2}, set.Songs.IDs())

	bank, ok := set.VoiceBanks.Find("res002012.mp3")
	assert.True(t, ok)
	assert.Equal(t, "birthday_rip", bank)
}

func TestBuild_ClosesReferences(t *testing.T) {
	b := NewBuilder(newFakeUpstream(cloneDocs()), zap.NewNop(), Options{})

	set, err := b.Build(context.Background())
	require.NoError(t, err)

	kasumi, _ := set.Characters.Get(1)
	require.NotNil(t, kasumi.BandID)
	assert.Equal(t, 1, *kasumi.BandID)

	yukina, _ := set.Characters.Get(2)
	assert.Nil(t, yukina.BandID, "band 2 is not released")

	cover, _ := set.Songs.Get(2)
	assert.Nil(t, cover.BandID)

	assert.False(t, set.Cards.Has(11), "card of a filtered character")

	event, _ := set.Events.Get(1)
	assert.Equal(t, []int{1}, event.CharacterIDs)
	assert.Equal(t, []int{10}, event.CardIDs)

	gacha, _ := set.Gachas.Get(1)
	assert.Equal(t, []int{10}, gacha.NewCardIDs)
	require.NotNil(t, gacha.Rates.JP)
	assert.Equal(t, []models.PickupRate{{CardID: 10, Pickup: true, Rarity: 4, Rate: 20}}, *gacha.Rates.JP)
	assert.Nil(t, gacha.Rates.EN)

	for _, c := range set.Cards.All() {
		assert.True(t, set.Characters.Has(c.CharacterID))
	}
}

func TestBuild_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(docs map[string]string)
		check  func(t *testing.T, err error)
	}{
		{
			name: "MissingDetail",
			mutate: func(docs map[string]string) {
				delete(docs, "/api/cards/12.json")
			},
			check: func(t *testing.T, err error) {
				var respErr *fetch.ResponseError
				assert.ErrorAs(t, err, &respErr)
				assert.Contains(t, err.Error(), "cards 12")
			},
		},
		{
			name: "InvalidDetail",
			mutate: func(docs map[string]string) {
				docs["/api/songs/1.json"] = `{"tag": "remix"}`
			},
			check: func(t *testing.T, err error) {
				var vErr *schema.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, models.KindSongs, vErr.Kind)
				assert.Equal(t, 1, vErr.ID)
			},
		},
		{
			name: "MissingVoiceBank",
			mutate: func(docs map[string]string) {
				delete(docs, "/api/explorer/jp/assets/sound/voice/gacha/limited_rip.json")
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "voice bank limited_rip")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := cloneDocs()
			tt.mutate(docs)

			set, err := NewBuilder(newFakeUpstream(docs), nil, Options{}).Build(context.Background())
			require.Error(t, err)
			assert.Nil(t, set)
			tt.check(t, err)
		})
	}
}

func TestBuild_Policies(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want map[string]string
	}{
		{
			name: "CachedListings",
			opts: Options{},
			want: map[string]string{
				"/api/cards/all.5.json": "skip-if-cached",
				"/api/cards/10.json":    "skip-if-cached",
				"/api/events/1.json":    "predicate",
				"/api/gacha/1.json":     "predicate",
			},
		},
		{
			name: "RefreshListings",
			opts: Options{RefreshListings: true},
			want: map[string]string{
				"/api/cards/all.5.json":                          "always-refetch",
				"/api/explorer/jp/assets/sound/voice/gacha.json": "always-refetch",
				"/api/songs/1.json":                              "skip-if-cached",
				"/api/events/1.json":                             "predicate",
			},
		},
		{
			name: "Refetch",
			opts: Options{Refetch: true},
			want: map[string]string{
				"/api/bands/all.1.json": "always-refetch",
				"/api/cards/10.json":    "always-refetch",
				"/api/events/1.json":    "always-refetch",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newFakeUpstream(cloneDocs())
			_, err := NewBuilder(upstream, zap.NewNop(), tt.opts).Build(context.Background())
			require.NoError(t, err)

			for path, policy := range tt.want {
				assert.Equal(t, policy, upstream.policies[path], path)
			}
		})
	}
}

func TestBuild_WarmCacheSkipsNetwork(t *testing.T) {
	var (
		mu   sync.Mutex
		hits int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()

		doc, ok := catalogDocs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return hits
	}

	cache, err := fetch.NewCache(afero.NewMemMapFs(), "/cache")
	require.NoError(t, err)
	client, err := fetch.NewClient(fetch.Config{BaseURL: srv.URL}, fetch.NewPool(fetch.DefaultConcurrency, 0), cache, zap.NewNop())
	require.NoError(t, err)

	// Gacha 1 closed in 2017, so its predicate accepts the cached copy too.
	b := NewBuilder(client, zap.NewNop(), Options{})

	first, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(catalogDocs), count())

	second, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(catalogDocs), count(), "second build is served from the cache")
	assert.Equal(t, first.Cards.IDs(), second.Cards.IDs())
}
