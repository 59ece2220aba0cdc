package services_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
	tu "github.com/desertthunder/plx/internal/testing"
)

func newMockedProvider(rt *tu.MockRoundTripper, token string) *services.RemoteProvider {
	return services.NewRemoteProvider(services.RemoteOpts{
		BaseURL:    "http://music.test",
		Token:      token,
		HTTPClient: &http.Client{Transport: rt},
		Logger:     shared.NewLogger(io.Discard),
	})
}

func TestRemoteTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("connection error is a transport failure", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("connection refused"))
		p := newMockedProvider(rt, "")

		ok, err := p.DeletePlaylist(ctx, 9)
		if ok {
			t.Error("expected no success")
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected cause in error, got %v", err)
		}
		if n := len(rt.Requests()); n != 1 {
			t.Errorf("expected 1 request, got %d", n)
		}
	})

	t.Run("unreadable body is a transport failure", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(&http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}, nil)
		p := newMockedProvider(rt, "")

		if _, err := p.CreatePlaylist(ctx, "Road Trip"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("token wraps the given transport", func(t *testing.T) {
		body := io.NopCloser(strings.NewReader(`{"success": true}`))
		rt := tu.NewMockRoundTripper(&http.Response{StatusCode: http.StatusOK, Body: body, Header: http.Header{}}, nil)
		p := newMockedProvider(rt, "secret")

		ok, err := p.RenamePlaylist(ctx, 9, "Renamed")
		if err != nil || !ok {
			t.Fatalf("expected success, got %v (%v)", ok, err)
		}

		requests := rt.Requests()
		if len(requests) != 1 {
			t.Fatalf("expected 1 request, got %d", len(requests))
		}
		if got := requests[0].Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if requests[0].URL.Path != "/api/playlists/9" {
			t.Errorf("unexpected path %s", requests[0].URL.Path)
		}
	})
}
