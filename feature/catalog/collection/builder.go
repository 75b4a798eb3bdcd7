package collection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bandori-index/core/fetch"
	"bandori-index/feature/catalog/models"
	"bandori-index/feature/catalog/schema"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves upstream documents. *fetch.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, pathname string, policy fetch.Policy) ([]byte, error)
}

// Options tunes the cache policies of a build.
type Options struct {
	// RefreshListings refetches listing documents even when cached.
	RefreshListings bool
	// Refetch ignores the cache for every document.
	Refetch bool
	// Now is used by the freshness predicates. Defaults to time.Now.
	Now func() time.Time
}

// Builder runs the per-kind schema pipelines.
type Builder struct {
	client Fetcher
	logger *zap.Logger
	opts   Options
}

// NewBuilder creates a Builder reading through client.
func NewBuilder(client Fetcher, logger *zap.Logger, opts Options) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{client: client, logger: logger, opts: opts}
}

// Build fetches every kind and returns the closed collection Set.
func (b *Builder) Build(ctx context.Context) (*Set, error) {
	start := time.Now()

	var (
		bands      map[int]models.Band
		cards      map[int]models.Card
		characters map[int]models.Character
		events     map[int]models.Event
		gachas     map[int]models.Gacha
		songs      map[int]models.Song
		voice      map[string][]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bands, err = buildKind(gctx, b, models.KindBands, schema.ParseBandSummary, schema.ParseBandDetail)
		return err
	})
	g.Go(func() (err error) {
		cards, err = buildKind(gctx, b, models.KindCards, schema.ParseCardSummary, schema.ParseCardDetail)
		return err
	})
	g.Go(func() (err error) {
		characters, err = buildKind(gctx, b, models.KindCharacters, schema.ParseCharacterSummary, schema.ParseCharacterDetail)
		return err
	})
	g.Go(func() (err error) {
		events, err = buildKind(gctx, b, models.KindEvents, schema.ParseEventSummary, schema.ParseEventDetail)
		return err
	})
	g.Go(func() (err error) {
		gachas, err = buildKind(gctx, b, models.KindGachas, schema.ParseGachaSummary, schema.ParseGachaDetail)
		return err
	})
	g.Go(func() (err error) {
		songs, err = buildKind(gctx, b, models.KindSongs, schema.ParseSongSummary, schema.ParseSongDetail)
		return err
	})
	g.Go(func() (err error) {
		voice, err = b.loadVoiceBanks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dropped := closeReferences(bands, cards, characters, events, gachas, songs)
	if dropped.any() {
		b.logger.Info("Removed references to filtered records",
			zap.Int("character_bands", dropped.characterBands),
			zap.Int("song_bands", dropped.songBands),
			zap.Int("cards", dropped.cards),
			zap.Int("event_members", dropped.eventMembers),
			zap.Int("gacha_cards", dropped.gachaCards),
		)
	}

	set := &Set{
		Bands:      New(bands),
		Cards:      New(cards),
		Characters: New(characters),
		Events:     New(events),
		Gachas:     New(gachas),
		Songs:      New(songs),
		VoiceBanks: NewVoiceBanks(voice),
	}

	fields := []zap.Field{zap.Duration("duration", time.Since(start))}
	for _, kind := range models.Kinds {
		fields = append(fields, zap.Int(string(kind), set.Len(kind)))
	}
	b.logger.Info("Built collections", fields...)
	return set, nil
}

func (b *Builder) listingPolicy() fetch.Policy {
	if b.opts.Refetch || b.opts.RefreshListings {
		return fetch.AlwaysRefetch
	}
	return fetch.SkipIfCached
}

func (b *Builder) detailPolicy(kind models.Kind) fetch.Policy {
	if b.opts.Refetch {
		return fetch.AlwaysRefetch
	}
	return schema.DetailPolicy(kind, b.opts.Now)
}

// buildKind runs the summary and detail schemas of one kind. Kinds without a detail
// document parse their listing entry instead.
func buildKind[T any](
	ctx context.Context,
	b *Builder,
	kind models.Kind,
	parseSummary func([]byte) (schema.Summary, error),
	parseDetail func([]byte, int) (T, error),
) (map[int]T, error) {
	listingPath := schema.ListingPath(kind)
	listing, err := b.client.Fetch(ctx, listingPath, b.listingPolicy())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s listing: %w", kind, err)
	}

	summary, err := parseSummary(listing)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("Parsed listing", zap.String("kind", string(kind)), zap.Int("eligible", summary.Len()))

	var (
		mu      sync.Mutex
		records = make(map[int]T, summary.Len())
		policy  = b.detailPolicy(kind)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range summary.IDs {
		g.Go(func() error {
			doc, _ := summary.Entry(id)
			if path, ok := schema.DetailPath(kind, id); ok {
				fetched, err := b.client.Fetch(gctx, path, policy)
				if err != nil {
					return fmt.Errorf("failed to fetch %s %d: %w", kind, id, err)
				}
				doc = fetched
			}

			rec, err := parseDetail(doc, id)
			if err != nil {
				return err
			}

			mu.Lock()
			records[id] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (b *Builder) loadVoiceBanks(ctx context.Context) (map[string][]string, error) {
	index, err := b.client.Fetch(ctx, schema.VoiceBankIndexPath, b.listingPolicy())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voice bank index: %w", err)
	}
	banks, err := schema.ParseVoiceBankIndex(index)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		out = make(map[string][]string, len(banks))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, bank := range banks {
		g.Go(func() error {
			data, err := b.client.Fetch(gctx, schema.VoiceBankPath(bank), b.listingPolicy())
			if err != nil {
				return fmt.Errorf("failed to fetch voice bank %s: %w", bank, err)
			}
			files, err := schema.ParseVoiceBank(data)
			if err != nil {
				return err
			}

			mu.Lock()
			out[bank] = files
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
