// Package openweather provides an HTTP client for the OpenWeatherMap current
// weather API.
//
// # Overview
//
// The poll controller only needs three values per tick: a condition code,
// sunrise and sunset. Client.Fetch requests
//
//	GET {endpoint}/data/2.5/weather?q={city},{country}&units=metric&appid={key}
//
// and reduces the response to an Observation.
//
// # Resilience
//
// Requests have a 10 second timeout. A circuit breaker (sony/gobreaker) opens
// after three consecutive failures; while open, Fetch fails immediately with a
// KindCircuitOpen error and no request is sent. After Options.RetryAfter a
// single request is let through. The app sets RetryAfter to half the poll
// interval, so every tick while degraded still reaches the API once. The
// controller treats every error the same way (degraded mode). A call cut short
// by context cancellation does not count as a breaker failure.
//
// # Errors
//
// All failures are *FetchError values classified by ErrorKind:
//
//   - network: DNS, connection refused, timeouts
//   - status: HTTP 4xx/5xx (401 means a bad API key)
//   - decode: malformed JSON
//   - no_conditions: a response with an empty weather array
//   - circuit_open: the breaker rejected the call
//
// Error messages never include the request URL, so the API key does not end up
// in logs.
package openweather
