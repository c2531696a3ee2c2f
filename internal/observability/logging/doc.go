// Package logging builds the service's log/slog logger and carries it through
// request contexts.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, logging.FromContext(ctx)).Info("summarizing")
//	}
package logging
