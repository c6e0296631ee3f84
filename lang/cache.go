package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by a hash of source and options.
var globalCache sync.Map

// entry holds the result of parsing one source text.
// The document is never handed out directly; callers receive a deep copy.
type entry struct {
	once   sync.Once
	source string
	doc    *Document
	err    error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// cacheKey combines the source hash with the options hash.
func cacheKey(source string, opts optionsKey) string {
	return strconv.FormatUint(xxh3.HashString(source)^hashOptions(opts), 36)
}

// ParseReader parses a complete configuration text read from r.
//
// Results are cached by content: parsing the same text with the same options
// again returns a copy of the earlier result without re-parsing.
// See [ParseString] for the language.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	// This allows data to be pre-fetched while we process previous chunks.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return parseCached(ctx, string(data), cfg)
}

// parseCached parses source, sharing the result with earlier and concurrent
// calls for the same source and options.
func parseCached(
	ctx context.Context,
	source string,
	cfg config,
) (*Document, error) {
	key := cacheKey(source, cfg.opts)

	value, cacheHit := globalCache.LoadOrStore(key, &entry{source: source})

	e, ok := value.(*entry)
	if !ok || e.source != source {
		// Hash collision: do not share results across distinct sources.
		cfg.logger.TraceContext(ctx, "cache bypass",
			slog.String("cache_key", key),
		)

		return parse(ctx, source, cfg)
	}

	e.once.Do(func() {
		e.doc, e.err = parse(ctx, source, cfg)
	})

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("cache_key", key),
		slog.Bool("cache_hit", cacheHit),
	)

	if e.err != nil {
		// Cancellation is a property of the call, not of the source.
		if errors.Is(e.err, context.Canceled) ||
			errors.Is(e.err, context.DeadlineExceeded) {
			globalCache.CompareAndDelete(key, e)

			// Another caller's context ended the shared parse.
			if ctx.Err() == nil {
				return parse(ctx, source, cfg)
			}
		}

		return nil, e.err
	}

	return e.doc.Clone(), nil
}

// ClearCache removes all cached parse results.
func ClearCache() {
	globalCache.Clear()
}
