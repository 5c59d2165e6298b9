// SPDX-License-Identifier: GPL-3.0-or-later
package gmail

import (
	"context"

	"google.golang.org/api/gmail/v1"
)

type fetchResult struct {
	msg *gmail.Message
	err error
}

// fetchAll runs fetch for every id with at most concurrency calls in flight.
// Failed calls are retried once. Results keep the order of ids.
func fetchAll(ctx context.Context, ids []string, concurrency int, fetch func(context.Context, string) (*gmail.Message, error)) []fetchResult {
	semaphore := make(chan bool, concurrency)
	results := make([]fetchResult, len(ids))
	for i := 0; i < len(ids); i++ {
		if ctx.Err() != nil {
			results[i].err = ctx.Err()
			continue
		}

		semaphore <- true
		go func(index int) {
			defer func() { <-semaphore }()

			msg, err := fetch(ctx, ids[index])
			if err != nil && ctx.Err() == nil {
				msg, err = fetch(ctx, ids[index])
			}
			results[index] = fetchResult{msg: msg, err: err}
		}(i)
	}

	for i := 0; i < concurrency; i++ {
		semaphore <- true
	}

	return results
}
