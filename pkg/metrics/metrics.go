package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Counter metric names recorded by the storefront.
const (
	MetricHTTPRequest   = "codebook_http_request"
	MetricBackendCall   = "codebook_backend_call"
	MetricBackendError  = "codebook_backend_error"
	MetricOrderCreated  = "codebook_order_created"
	MetricLoginSuccess  = "codebook_login_success"
	MetricLoginFailure  = "codebook_login_failure"
	MetricReviewCreated = "codebook_review_created"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the embedded time-series store under workdir.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(time.Hour),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// CounterInc records one occurrence of the named metric now.
func CounterInc(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: 1},
		},
	})
}

// CounterSum sums occurrences of the named metric inside the window.
func CounterSum(name string, window time.Duration) float64 {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return 0
	}
	end := time.Now().Unix()
	start := end - int64(window.Seconds())
	points, err := storage.Select(name, nil, start, end+1)
	if err != nil {
		return 0
	}
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return total
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
