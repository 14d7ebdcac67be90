// Package httpapi provides the RAG backend adapter over plain HTTP.
//
// The backend exposes two endpoints:
//
//   - POST /upload      multipart field "file"; JSON {file_id, chunks} or {error}
//   - POST /ask-stream  multipart fields "question" and "file_id"; raw byte stream
//
// Requests are paced client-side with a token bucket that also honours
// Retry-After on HTTP 429. Nothing is retried automatically.
package httpapi
