package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/huddleup/gameplan/pkg/gameplan"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	var stored []gameplan.Situation
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"token":"tok-1","username":"coach"}`))
	})
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/api/situations", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req struct {
				Situations []gameplan.Situation `json:"situations"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Situations == nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"body must contain a situations array"}`))
				return
			}
			for i := range req.Situations {
				req.Situations[i].ID = "s" + string(rune('1'+i))
			}
			stored = req.Situations
			json.NewEncoder(w).Encode(map[string]interface{}{"situations": stored})
			return
		}
		if stored == nil {
			stored = []gameplan.Situation{}
		}
		json.NewEncoder(w).Encode(stored)
	}))
	mux.HandleFunc("/api/bootstrap", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"plans":[{"id":"p1","week":1,"opponent":"Bears"}],"situations":[],"plays":[]}`))
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginAndSituations(t *testing.T) {
	ctx := context.Background()
	srv := fakeServer(t)
	c := New(srv.URL + "/")

	if _, err := c.Situations(ctx); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before login, got %v", err)
	}
	tok, err := c.Login(ctx, "coach", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != "tok-1" || c.Token() != "tok-1" {
		t.Fatalf("unexpected token %q", tok)
	}

	saved, err := c.ReplaceSituations(ctx, []gameplan.Situation{{Name: "Backed up", Down: 1, Distance: 10}})
	if err != nil {
		t.Fatalf("ReplaceSituations: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != "s1" || saved[0].Name != "Backed up" {
		t.Fatalf("unexpected saved situations %+v", saved)
	}

	got, err := c.Situations(ctx)
	if err != nil {
		t.Fatalf("Situations: %v", err)
	}
	if len(got) != 1 || got[0].Down != 1 {
		t.Fatalf("unexpected situations %+v", got)
	}

	cleared, err := c.ReplaceSituations(ctx, nil)
	if err != nil {
		t.Fatalf("ReplaceSituations(nil): %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("expected empty list, got %+v", cleared)
	}
}

func TestLoginRejected(t *testing.T) {
	c := New(fakeServer(t).URL)
	if _, err := c.Login(context.Background(), "coach", "nope"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBootstrap(t *testing.T) {
	c := New(fakeServer(t).URL)
	c.SetToken("tok-1")
	b, err := c.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if len(b.Plans) != 1 || b.Plans[0].Opponent != "Bears" {
		t.Fatalf("unexpected bootstrap %+v", b)
	}
}

func TestErrorBodyIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"game plan x: not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Situations(context.Background())
	if err == nil || !strings.Contains(err.Error(), "game plan x: not found") || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected error carrying the server message, got %v", err)
	}
}
