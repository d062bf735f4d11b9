// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package geo resolves IP geolocation from a pool of free providers.
//
// Lookups are cache-first (geo:<ip>, 24 h default TTL). On a miss the
// enricher walks an ordered provider chain — ip-api.com, ipwhois.app,
// geojs.io by default — and returns the first usable record. A record is
// usable when it carries at least a country code and in-range coordinates.
//
// Free geolocation tiers are shared infrastructure, so outbound traffic
// is paced twice: a process-global Pacer enforces a minimum gap between
// any two requests and widens it when providers error or rate-limit, and
// a per-provider token bucket keeps each service under its own free-tier
// ceiling.
//
// Private, loopback, link-local, multicast, and unspecified addresses
// are answered locally as not-found without any outbound call.
package geo
