// Package fetch provides the cached, concurrency-bounded HTTP client used to read the
// upstream catalog API.
//
// Every outbound request goes through a Limiter. The default Pool is a FIFO semaphore
// (golang.org/x/sync/semaphore) of fixed width, optionally paced by a token bucket
// (golang.org/x/time/rate). The pool is an explicit object handed to the Client, so tests can
// substitute Unbounded() or a narrower pool.
//
// # Cache
//
// Responses are stored on disk (through an afero.Fs) as one file per pathname, the file name
// being the pathname with "/" flattened to "_". Files hold the exact response bytes. Writes go
// to a temporary file that is renamed into place, so readers never observe a partial file and
// racing writers of the same key are harmless.
//
// # Policies
//
//   - SkipIfCached: a cached copy is always used.
//   - AlwaysRefetch: the cache is never read (but successful responses are still written).
//   - FreshWhen / FreshWhenJSON: a predicate decides whether the cached copy is still fresh.
//
// # Regional fallback
//
// A request for "/assets/<primary>/..." that fails with a non-2xx status or an HTML body is
// retried once against "/assets/<secondary>/...". Any other failure is returned as is.
//
// # Usage
//
//	pool := fetch.NewPool(cfg.Fetch.Concurrency, cfg.Fetch.RequestsPerSecond)
//	cache, _ := fetch.NewCache(afero.NewOsFs(), cfg.Fetch.CacheDir)
//	client, _ := fetch.NewClient(cfg.Fetch, pool, cache, logg)
//	data, err := client.Fetch(ctx, "/api/cards/all.5.json", fetch.AlwaysRefetch)
package fetch
