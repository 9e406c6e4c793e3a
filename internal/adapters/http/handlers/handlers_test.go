package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func TestIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || body["message"] != "Request successful" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestStatsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewStatsHandler(fixedCounter(3), 10*time.Second, 2)(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	var body statsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := statsResponse{TrackedKeys: 3, WindowSeconds: 10, RateLimit: 2}
	if body != want {
		t.Fatalf("expected %+v, got %+v", want, body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

type stubBanList struct {
	banned map[string]bool
	err    error
}

func (s *stubBanList) IsBanned(_ context.Context, key string) (bool, error) {
	return s.banned[key], s.err
}

func (s *stubBanList) Unban(_ context.Context, key string) error {
	delete(s.banned, key)
	return nil
}

func unban(bans *stubBanList, key string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Delete("/bans/{key}", NewUnbanHandler(bans))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/bans/"+key, nil))
	return rec
}

func TestUnbanHandler(t *testing.T) {
	bans := &stubBanList{banned: map[string]bool{"203.0.113.7": true}}

	if rec := unban(bans, "203.0.113.7"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if bans.banned["203.0.113.7"] {
		t.Fatal("expected ban to be lifted")
	}

	if rec := unban(bans, "203.0.113.7"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a key that is not banned, got %d", rec.Code)
	}
}

func TestUnbanHandler_BanListDown(t *testing.T) {
	bans := &stubBanList{err: errors.New("redis down")}

	if rec := unban(bans, "203.0.113.7"); rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
