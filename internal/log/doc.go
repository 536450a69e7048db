// Package log builds slog loggers that scrub engine credentials from output.
//
// Verification runs talk to Knowledge Engine deployments using bearer tokens
// and custom auth headers from the config file, and verbose mode logs request
// detail. SecureHandler sits between the logger and its text or JSON handler
// and masks any attribute whose key names a credential or whose value is
// shaped like a token (JWTs, Authorization header values, long opaque keys).
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("request sent",
//	    "authorization", "Bearer abc123", // masked
//	    "url", "http://127.0.0.1:8001/api/engine",
//	)
//	slog.SetDefault(logger)
package log
