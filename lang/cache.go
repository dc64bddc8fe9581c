package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// entry is one compiled source in a [Language] cache.
type entry struct {
	once sync.Once
	root *Node
	err  error
}

// Compile parses text, or returns the program already compiled from
// identical text by this language. Parse failures are cached as well.
func (l *Language) Compile(ctx context.Context, text string) (*Program, error) {
	hash := xxh3.HashString(text)
	key := strconv.FormatUint(hash, 36)

	value, hit := l.cache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrInvalidTable.With(
			slog.String("issue", "invalid entry type in cache"))
	}

	l.opts.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit))

	e.once.Do(func() {
		e.root, e.err = l.Check(ctx, text)
	})

	if e.err != nil {
		return nil, e.err
	}

	return &Program{lang: l, root: e.root, text: text}, nil
}

// ClearCache removes all compiled programs.
func (l *Language) ClearCache() {
	l.cache.Clear()
}

// ReadSource reads an entire script from r through an asynchronous
// read-ahead buffer.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(data), nil
}
