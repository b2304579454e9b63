package aws

import "context"

// fetchPages drains one pagination session, appending every page's records
// in order. When a page request fails, the records fetched so far are
// returned together with the error so the caller can keep the truncated
// prefix instead of discarding it. Cancellation is checked between pages
// so an aborted scan stops issuing requests promptly.
func fetchPages[T any](ctx context.Context, hasMore func() bool, next func(context.Context) ([]T, error)) ([]T, error) {
	records := []T{}
	for hasMore() {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		page, err := next(ctx)
		if err != nil {
			return records, err
		}
		records = append(records, page...)
	}
	return records, nil
}
