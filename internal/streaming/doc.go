// Package streaming turns a raw, unframed byte stream into text fragments.
//
// Answers arrive as arbitrary network reads with no delimiters. A read may
// end in the middle of a multi-byte UTF-8 character, so decoding keeps the
// incomplete tail between reads instead of decoding each read on its own.
package streaming
