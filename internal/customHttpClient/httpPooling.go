package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/nchandra/eduquest/internal/config"
)

//TODO: make qdrant/embedder reuse connections to avoid latency

var (
	pooledClient *http.Client
	once         sync.Once
)

// GetPooledClient returns the shared HTTP client with connection pooling
// tuned for repeated model API calls.
func GetPooledClient() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return pooledClient
}
