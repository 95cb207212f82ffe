package handler_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
)

type sseEvent struct {
	name string
	data string
}

// openStream starts a GET against a live test server and returns a reader of
// its events. The stream is closed when the test ends.
func openStream(t *testing.T, h http.Handler, path string) (*http.Response, <-chan sseEvent) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	events := make(chan sseEvent)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(resp.Body)
		var ev sseEvent
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			case line == "" && ev.name != "":
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
				ev = sseEvent{}
			}
		}
	}()
	return resp, events
}

func nextEvent(t *testing.T, events <-chan sseEvent) sseEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "stream ended early")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return sseEvent{}
}

func TestStreamTrip_SendsEachSnapshot(t *testing.T) {
	source := make(chan domain.Trip)
	svc := &mockTripServicer{
		observeTripDetail: func(_ context.Context, id string) <-chan domain.Trip {
			assert.Equal(t, "t1", id)
			return source
		},
	}
	resp, events := openStream(t, newHTTPHandler(svc, nil, nil), "/trips/t1/stream")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	first := tripFixture()
	source <- first
	ev := nextEvent(t, events)
	assert.Equal(t, "trip", ev.name)
	var got domain.Trip
	require.NoError(t, json.Unmarshal([]byte(ev.data), &got))
	assert.Equal(t, "Kyoto", got.Name)

	second := tripFixture()
	second.Name = "Nara"
	source <- second
	ev = nextEvent(t, events)
	require.NoError(t, json.Unmarshal([]byte(ev.data), &got))
	assert.Equal(t, "Nara", got.Name)
}

func TestStreamTrip_EndsWhenSourceCloses(t *testing.T) {
	source := make(chan domain.Trip)
	svc := &mockTripServicer{
		observeTripDetail: func(context.Context, string) <-chan domain.Trip { return source },
	}
	_, events := openStream(t, newHTTPHandler(svc, nil, nil), "/trips/t1/stream")

	close(source)

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream still open after source closed")
	}
}

func TestStreamPublicTrips(t *testing.T) {
	source := make(chan []domain.Trip, 1)
	source <- []domain.Trip{tripFixture()}
	svc := &mockTripServicer{
		observePublicTrips: func(context.Context) <-chan []domain.Trip { return source },
	}
	_, events := openStream(t, newHTTPHandler(svc, nil, nil), "/trips/public/stream")

	ev := nextEvent(t, events)

	assert.Equal(t, "trips", ev.name)
	var got []domain.Trip
	require.NoError(t, json.Unmarshal([]byte(ev.data), &got))
	require.Len(t, got, 1)
}

func TestStreamMyTrips_PassesUser(t *testing.T) {
	source := make(chan []domain.Trip, 1)
	source <- []domain.Trip{}
	users := make(chan string, 1)
	svc := &mockTripServicer{
		observeMyTrips: func(_ context.Context, userID string) <-chan []domain.Trip {
			users <- userID
			return source
		},
	}
	_, events := openStream(t, newHTTPHandler(svc, nil, nil), "/users/u7/trips/stream")

	ev := nextEvent(t, events)

	assert.Equal(t, "[]", ev.data)
	assert.Equal(t, "u7", <-users)
}

func TestCloseStreams_EndsOpenStreams(t *testing.T) {
	source := make(chan domain.Trip)
	svc := &mockTripServicer{
		observeTripDetail: func(context.Context, string) <-chan domain.Trip { return source },
	}
	srv := handler.NewServer(svc, nil, nil, nil, discardLogger())
	resp, events := openStream(t, srv.Routes(), "/trips/t1/stream")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	srv.CloseStreams()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream still open after CloseStreams")
	}
}
