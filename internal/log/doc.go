// Package log builds the slog loggers used across cyberwatchdog.
//
// Every logger returned by this package wraps its handler in a
// RedactingHandler. The handler masks credentials before they reach the
// output:
//   - attributes whose key names a secret (authorization, cookie, token,
//     password, hf_api_token and similar)
//   - values that are a credential on their own (bearer or basic auth
//     headers, JWTs, Hugging Face access tokens)
//   - credentials embedded inside longer strings and error messages, such
//     as a token in a URL query or an echoed Authorization header
//
// Verbose mode lowers the level to Debug. Masking applies at every level.
//
//	logger := log.NewRedactingLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
