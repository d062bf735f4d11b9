// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

/*
Package services provides suture.Service wrappers for Indicium components.

This package adapts application components to the suture v4 supervision
model, translating their lifecycle patterns (Start/Stop, ListenAndServe)
into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation (Start/Stop to Serve pattern)
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Preprocessor (PreprocessorService):
  - Wraps preprocessor.Manager with Start/Stop lifecycle
  - Runs the scheduled snapshot rebuild loop
  - A start failure (e.g. unreachable database) triggers supervised restart
    with backoff, while the last published snapshot keeps serving

# Error Semantics

Wrappers translate component errors into supervisor decisions:
  - Transient errors: return error, supervisor restarts with backoff
  - Graceful shutdown: return ctx.Err() after cleanup
  - http.ErrServerClosed: converted to nil (expected on shutdown)

# See Also

  - internal/supervisor: The supervisor tree these services attach to
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package services
