package questionpack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Reader fetches question packs from a remote registry, caching each pack
// on disk so repeated imports don't hit the network.
type Reader struct {
	config    Config
	fileCache *FileCache
}

type Config struct {
	BaseURL string
}

func NewReader(cacheDirectory string, config Config) *Reader {
	return &Reader{
		config:    config,
		fileCache: NewFileCache(cacheDirectory),
	}
}

func (r *Reader) fetchAPI(ctx context.Context, packName string) ([]byte, error) {
	var response []byte
	client := resty.New()
	res, err := client.R().
		SetContext(ctx).
		Get(
			fmt.Sprintf("%s/packs/%s.json", r.config.BaseURL, packName),
		)
	if err != nil {
		return response, fmt.Errorf("client.R.Get > %w, response %s", err, string(res.Body()))
	}
	if res.StatusCode() != http.StatusOK {
		return response, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	return res.Body(), nil
}

// Fetch returns the named pack, from cache when available.
func (r *Reader) Fetch(ctx context.Context, packName string) (Pack, error) {
	var pack Pack
	contents, err := r.fileCache.cache(packName, func() ([]byte, error) {
		body, err := r.fetchAPI(ctx, packName)
		if err != nil {
			return nil, fmt.Errorf("r.fetchAPI > %w", err)
		}
		return body, nil
	})
	if err != nil {
		return pack, fmt.Errorf("r.fileCache.cache > %w", err)
	}
	if err := json.Unmarshal(contents, &pack); err != nil {
		return pack, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if pack.Name == "" {
		pack.Name = packName
	}
	return pack, nil
}
