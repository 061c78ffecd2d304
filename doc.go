// Package mailkit composes and serializes Internet email messages
// (RFC 5322 headers, RFC 2045-2049 MIME bodies) with a streaming
// serializer so large bodies never need to sit fully in memory.
//
// The package is write-only: it has no message parser. Build a
// message with NewMessage, attach a body with Body or a MIME tree with
// MimeBody, and serialize it with Message.WriteTo or
// Message.IntoStream.
package mailkit
