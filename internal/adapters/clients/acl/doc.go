// Package acl translates upstream quote and feed payloads into domain types.
//
// Nothing outside this package sees a provider's wire format. Each adapter
// decodes its payload, validates it and returns either a domain value or a
// domain error:
//
//   - 404 from a quote provider → [domain.ErrNotFound]
//   - any other non-2xx, transport failure or open circuit → [domain.ErrUnavailable]
//   - a 2xx whose body cannot be decoded, or whose price is missing,
//     non-numeric or negative → [domain.ErrMalformed]
//
// Prices are parsed with shopspring/decimal so that provider strings such as
// "123.450" or "N/A" are handled exactly before conversion to float64.
package acl
