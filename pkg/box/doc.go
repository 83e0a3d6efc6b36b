// Package box provides Box, the ordered read-only key-value container that
// holds every group of request data (query, form, body, files, server
// variables, cookies, headers).
//
// A Box is built once and never mutated afterwards. Lookups take a default
// value that is returned when the key is absent:
//
//	page := b.Get("page", "1")
//	name := b.String("name", "anonymous")
//
// Keys keep the order in which they were supplied, so a Box built from a
// decoded JSON object serializes back with the same key order.
package box
