package obs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Time logs how long an operation took. Use it as
//
//	defer obs.Time(ctx, "quote.compute")(&err)
//
// so the returned error, if any, is logged with the duration.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := middleware.GetReqID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			slog.Default().InfoContext(ctx, "op",
				"req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		slog.Default().DebugContext(ctx, "op",
			"req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
