package marketdata

import (
	"context"
	"runtime"
	"sync"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

// BulkPrices fetches the last traded price of many scrips concurrently
// with a bounded number of workers. Scrips with no ticker data are
// skipped rather than failing the whole batch; any other error aborts.
// If workers is 0 it defaults to runtime.NumCPU().
func BulkPrices(ctx context.Context, provider PriceProvider, scrips []models.Scrip, workers int) (map[string]float64, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(scrips) {
		workers = len(scrips)
	}

	queue := make(chan models.Scrip)
	prices := make(map[string]float64, len(scrips))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for scrip := range queue {
				ltp, err := provider.LastPrice(ctx, scrip)
				if err != nil {
					if errors.Is(err, errors.ErrDataNotFound) {
						continue
					}
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				mu.Lock()
				prices[scrip.Key()] = ltp
				mu.Unlock()
			}
		}()
	}

	for _, scrip := range scrips {
		select {
		case <-ctx.Done():
			close(queue)
			wg.Wait()
			return nil, ctx.Err()
		case queue <- scrip:
		}
	}
	close(queue)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return prices, nil
}
