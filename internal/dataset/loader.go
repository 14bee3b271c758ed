// internal/dataset/loader.go
//
// Dataset sources.
//
// Load resolves the character collection exactly once at start-up:
//   1. If Source.URL is set, fetch it over HTTP (bounded by Source.Timeout
//      and by the caller's context).
//   2. Else if Source.File is set, read it from disk.
//   3. Else fall back to the dataset embedded in the assets package.
//
// Any failure is reported as ErrDataLoad (or ErrEmptyDataset); there is no
// partial dataset.

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hsr-guess/assets"
	"github.com/robalobadob/hsr-guess/internal/schema"
)

const defaultFetchTimeout = 10 * time.Second

// Source selects where the dataset comes from.
type Source struct {
	URL     string
	File    string
	Timeout time.Duration
	Client  *http.Client
}

// Load resolves src into a validated Dataset.
func Load(ctx context.Context, src Source, sch *schema.Schema) (*Dataset, error) {
	switch {
	case src.URL != "":
		log.Info().Str("url", src.URL).Msg("fetching dataset")
		return Fetch(ctx, src.Client, src.URL, src.Timeout, sch)
	case src.File != "":
		log.Info().Str("file", src.File).Msg("reading dataset")
		return FromFile(src.File, sch)
	default:
		log.Info().Msg("using embedded dataset")
		return Embedded(sch)
	}
}

// Embedded parses the dataset compiled into the binary.
func Embedded(sch *schema.Schema) (*Dataset, error) {
	return Parse(bytes.NewReader(assets.Characters), sch)
}

// FromFile reads a JSON dataset from path.
func FromFile(path string, sch *schema.Schema) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer f.Close()
	return Parse(f, sch)
}

// Fetch downloads a JSON dataset. Cancelling ctx aborts the request.
func Fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration, sch *schema.Schema) (*Dataset, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrDataLoad, url, res.StatusCode)
	}
	return Parse(res.Body, sch)
}
