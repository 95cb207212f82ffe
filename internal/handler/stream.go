package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// heartbeatInterval keeps idle streams open through proxies.
const heartbeatInterval = 30 * time.Second

// StreamTrip handles GET /trips/{id}/stream.
// Each "trip" event carries the whole trip after a change. No event is sent
// while the trip does not exist.
func (s *Server) StreamTrip(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	serveStream(s, w, r, "trip", func(ctx context.Context) <-chan any {
		return relay(ctx, s.trips.ObserveTripDetail(ctx, params[0]))
	})
}

// StreamMyTrips handles GET /users/{userID}/trips/stream.
// Each "trips" event carries the full list.
func (s *Server) StreamMyTrips(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "userID")
	if !ok {
		return
	}
	serveStream(s, w, r, "trips", func(ctx context.Context) <-chan any {
		return relay(ctx, s.trips.ObserveMyTrips(ctx, params[0]))
	})
}

// StreamPublicTrips handles GET /trips/public/stream.
func (s *Server) StreamPublicTrips(w http.ResponseWriter, r *http.Request) {
	serveStream(s, w, r, "trips", func(ctx context.Context) <-chan any {
		return relay(ctx, s.trips.ObservePublicTrips(ctx))
	})
}

// relay widens a typed stream to <-chan any for serveStream.
func relay[T any](ctx context.Context, in <-chan T) <-chan any {
	out := make(chan any)
	go func() {
		defer close(out)
		for {
			var v T
			var ok bool
			select {
			case v, ok = <-in:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// serveStream writes server-sent events until the client goes away or the
// source closes.
func serveStream(s *Server, w http.ResponseWriter, r *http.Request, event string, open func(context.Context) <-chan any) {
	ctx := r.Context()
	if ctx.Err() != nil {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Error("failed to flush stream headers", "error", err)
		return
	}

	values := open(ctx)
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case v, ok := <-values:
			if !ok {
				return
			}
			if err := sendEvent(rc, w, event, v); err != nil {
				s.logger.Debug("stream client gone", "path", r.URL.Path, "error", err)
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case <-s.closing:
			return
		case <-ctx.Done():
			return
		}
	}
}

func sendEvent(rc *http.ResponseController, w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return rc.Flush()
}
