package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/trentd187/golf-wagers/internal/database"
	"github.com/trentd187/golf-wagers/internal/games"
	"github.com/trentd187/golf-wagers/internal/golf"
	"github.com/trentd187/golf-wagers/internal/models"
	"github.com/trentd187/golf-wagers/internal/notify"
	"github.com/trentd187/golf-wagers/internal/results"
	"github.com/trentd187/golf-wagers/internal/settlement"
)

// newApp builds an app whose requests are already authenticated as userID.
func newApp(userID, role string, routes func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("userRole", role)
		return c.Next()
	})
	routes(api)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

// Summary.Results holds interface values, so responses are decoded into these
// narrower shapes.
type netBody struct {
	Net map[string]decimal.Decimal `json:"net"`
}

type resultsBody struct {
	RoundID string  `json:"roundId"`
	Status  string  `json:"status"`
	Summary netBody `json:"summary"`
}

type completeBody struct {
	RoundID     string                  `json:"roundId"`
	Summary     netBody                 `json:"summary"`
	Settlements []settlement.Settlement `json:"settlements"`
}

func holes() []golf.Hole {
	out := make([]golf.Hole, 18)
	for i := range out {
		out[i] = golf.Hole{Number: i + 1, Par: 4, HandicapRank: i + 1}
	}
	return out
}

// fourEverywhere shoots 4 on every hole except the given overrides.
func fourEverywhere(id string, overrides map[int]int) golf.Player {
	p := golf.Player{ID: id}
	for n := 1; n <= 18; n++ {
		s := 4
		if o, ok := overrides[n]; ok {
			s = o
		}
		p.Scores = append(p.Scores, golf.HoleScore{HoleNumber: n, Strokes: golf.Int(s)})
	}
	return p
}

// skinsRound: "a" birdies the first hole and the rest tie, so a is up 2 and b, c
// are each down 1.
func skinsRound() results.RoundInput {
	return results.RoundInput{
		Players: []golf.Player{
			fourEverywhere("a", map[int]int{1: 3}),
			fourEverywhere("b", nil),
			fourEverywhere("c", nil),
		},
		Holes: holes(),
		Games: []results.GameConfig{{Format: games.FormatSkins, BetAmount: decimal.NewFromInt(1)}},
	}
}

type fakeRounds struct {
	mu          sync.Mutex
	rounds      map[string]database.Round
	completeErr error
}

func newFakeRounds(rounds ...database.Round) *fakeRounds {
	f := &fakeRounds{rounds: make(map[string]database.Round)}
	for _, r := range rounds {
		f.rounds[r.ID] = r
	}
	return f
}

func (f *fakeRounds) LoadRound(_ context.Context, id string) (database.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rounds[id]
	if !ok {
		return database.Round{}, database.ErrRoundNotFound
	}
	return r, nil
}

func (f *fakeRounds) CompleteRound(_ context.Context, id string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	r, ok := f.rounds[id]
	if !ok {
		return database.ErrRoundNotFound
	}
	r.Status = models.RoundStatusCompleted
	f.rounds[id] = r
	return nil
}

type recordingNotifier struct {
	calls [][]settlement.Settlement
}

func (n *recordingNotifier) SettlementsCreated(_ context.Context, s []settlement.Settlement) error {
	n.calls = append(n.calls, s)
	return nil
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HealthCheck)

	status, body := do(t, app, http.MethodGet, "/health", nil)
	if status != fiber.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", status, body)
	}
}

func TestListFormats(t *testing.T) {
	app := newApp("u", "user", func(r fiber.Router) { r.Get("/games/formats", ListFormats) })

	status, body := do(t, app, http.MethodGet, "/api/v1/games/formats", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	got := decode[struct{ Formats []games.Format }](t, body)
	if len(got.Formats) != len(games.Formats()) {
		t.Fatalf("expected every format, got %v", got.Formats)
	}
}

func TestComputeGames(t *testing.T) {
	app := newApp("u", "user", func(r fiber.Router) { r.Post("/games/compute", ComputeGames(games.DefaultRules())) })

	status, body := do(t, app, http.MethodPost, "/api/v1/games/compute", skinsRound())
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	sum := decode[netBody](t, body)
	want := map[string]int64{"a": 2, "b": -1, "c": -1}
	for id, w := range want {
		if !sum.Net[id].Equal(decimal.NewFromInt(w)) {
			t.Fatalf("%s: expected net %d, got %s", id, w, sum.Net[id])
		}
	}
}

func TestComputeGamesRejectsBadInput(t *testing.T) {
	app := newApp("u", "user", func(r fiber.Router) { r.Post("/games/compute", ComputeGames(games.DefaultRules())) })

	in := skinsRound()
	in.Games = []results.GameConfig{{Format: games.FormatNassau, BetAmount: decimal.NewFromInt(5)}}
	if status, body := do(t, app, http.MethodPost, "/api/v1/games/compute", in); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for a three-player nassau, got %d: %s", status, body)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games/compute", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.StatusCode)
	}
}

func TestGetRoundResults(t *testing.T) {
	rounds := newFakeRounds(database.Round{ID: "r1", Status: models.RoundStatusActive, Input: skinsRound()})
	routes := func(r fiber.Router) { r.Get("/rounds/:id/results", GetRoundResults(rounds, games.DefaultRules())) }

	tests := map[string]struct {
		user, role string
		path       string
		want       int
	}{
		"player":        {user: "b", role: "user", path: "/api/v1/rounds/r1/results", want: fiber.StatusOK},
		"admin":         {user: "z", role: "admin", path: "/api/v1/rounds/r1/results", want: fiber.StatusOK},
		"outsider":      {user: "z", role: "user", path: "/api/v1/rounds/r1/results", want: fiber.StatusForbidden},
		"unknown round": {user: "a", role: "user", path: "/api/v1/rounds/nope/results", want: fiber.StatusNotFound},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			status, body := do(t, newApp(tt.user, tt.role, routes), http.MethodGet, tt.path, nil)
			if status != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, status, body)
			}
			if status != fiber.StatusOK {
				return
			}
			got := decode[resultsBody](t, body)
			if got.RoundID != "r1" || got.Status != "active" {
				t.Fatalf("unexpected response: %+v", got)
			}
			if !got.Summary.Net["a"].Equal(decimal.NewFromInt(2)) {
				t.Fatalf("expected a to be up 2, got %s", got.Summary.Net["a"])
			}
		})
	}
}

func TestCompleteRoundSeedsSettlementsOnce(t *testing.T) {
	rounds := newFakeRounds(database.Round{ID: "r1", Status: models.RoundStatusActive, Input: skinsRound()})
	svc := settlement.NewService(settlement.NewMemoryStore(), nil, nil, nil)
	notifier := &recordingNotifier{}
	app := newApp("m", "manager", func(r fiber.Router) {
		r.Post("/rounds/:id/complete", CompleteRound(rounds, svc, notifier, games.DefaultRules()))
	})

	status, body := do(t, app, http.MethodPost, "/api/v1/rounds/r1/complete", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	first := decode[completeBody](t, body)
	if len(first.Settlements) != 2 {
		t.Fatalf("expected two settlements, got %+v", first.Settlements)
	}
	for _, s := range first.Settlements {
		if s.ToUserID != "a" || !s.Amount.Equal(decimal.NewFromInt(1)) || s.Status != settlement.StatusPending {
			t.Fatalf("unexpected settlement: %+v", s)
		}
	}
	if r, _ := rounds.LoadRound(context.Background(), "r1"); r.Status != models.RoundStatusCompleted {
		t.Fatalf("expected the round to be completed, got %s", r.Status)
	}

	status, body = do(t, app, http.MethodPost, "/api/v1/rounds/r1/complete", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected a repeat to succeed, got %d: %s", status, body)
	}
	second := decode[completeBody](t, body)
	if len(second.Settlements) != 2 {
		t.Fatalf("expected the same two settlements, got %+v", second.Settlements)
	}
	ids := map[string]bool{first.Settlements[0].ID: true, first.Settlements[1].ID: true}
	for _, s := range second.Settlements {
		if !ids[s.ID] {
			t.Fatalf("repeat created a new settlement %s", s.ID)
		}
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected payers to be notified once, got %d", len(notifier.calls))
	}
}

// flakyBatchStore drops the first batch write on the floor and reports an error.
type flakyBatchStore struct {
	*settlement.MemoryStore
	failures int
}

func (s *flakyBatchStore) CreateBatch(ctx context.Context, batch []settlement.Settlement) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset")
	}
	return s.MemoryStore.CreateBatch(ctx, batch)
}

func TestCompleteRoundFailedStatusUpdateSeedsNothing(t *testing.T) {
	rounds := newFakeRounds(database.Round{ID: "r1", Status: models.RoundStatusActive, Input: skinsRound()})
	rounds.completeErr = errors.New("connection reset")
	svc := settlement.NewService(settlement.NewMemoryStore(), nil, nil, nil)
	notifier := &recordingNotifier{}
	app := newApp("m", "manager", func(r fiber.Router) {
		r.Post("/rounds/:id/complete", CompleteRound(rounds, svc, notifier, games.DefaultRules()))
	})

	if status, _ := do(t, app, http.MethodPost, "/api/v1/rounds/r1/complete", nil); status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if seeded, _ := svc.ListForRound(context.Background(), "r1"); len(seeded) != 0 {
		t.Fatalf("expected no settlements for a round that is still active, got %+v", seeded)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.calls))
	}
}

func TestCompleteRoundRetrySeedsAfterFailedWrite(t *testing.T) {
	rounds := newFakeRounds(database.Round{ID: "r1", Status: models.RoundStatusActive, Input: skinsRound()})
	svc := settlement.NewService(&flakyBatchStore{MemoryStore: settlement.NewMemoryStore(), failures: 1}, nil, nil, nil)
	notifier := &recordingNotifier{}
	app := newApp("m", "manager", func(r fiber.Router) {
		r.Post("/rounds/:id/complete", CompleteRound(rounds, svc, notifier, games.DefaultRules()))
	})

	if status, _ := do(t, app, http.MethodPost, "/api/v1/rounds/r1/complete", nil); status != fiber.StatusInternalServerError {
		t.Fatalf("expected the failed write to surface as 500, got %d", status)
	}
	if seeded, _ := svc.ListForRound(context.Background(), "r1"); len(seeded) != 0 {
		t.Fatalf("expected the failed write to leave nothing behind, got %+v", seeded)
	}

	status, body := do(t, app, http.MethodPost, "/api/v1/rounds/r1/complete", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected the retry to succeed, got %d: %s", status, body)
	}
	got := decode[completeBody](t, body)
	total := decimal.Zero
	for _, s := range got.Settlements {
		total = total.Add(s.Amount)
	}
	if len(got.Settlements) != 2 || !total.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected b and c to owe a 2 in total, got %+v", got.Settlements)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected payers to be notified by the retry, got %d calls", len(notifier.calls))
	}
}

func TestCompleteRoundUnknownRound(t *testing.T) {
	svc := settlement.NewService(settlement.NewMemoryStore(), nil, nil, nil)
	app := newApp("m", "manager", func(r fiber.Router) {
		r.Post("/rounds/:id/complete", CompleteRound(newFakeRounds(), svc, nil, games.DefaultRules()))
	})
	if status, _ := do(t, app, http.MethodPost, "/api/v1/rounds/nope/complete", nil); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestSettlementRoutes(t *testing.T) {
	svc := settlement.NewService(settlement.NewMemoryStore(), nil, nil, nil)
	st, err := svc.Create(context.Background(), settlement.CreateInput{
		RoundID:    "r1",
		FromUserID: "x",
		ToUserID:   "y",
		Amount:     decimal.RequireFromString("25.00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	routes := func(r fiber.Router) {
		r.Get("/settlements", ListSettlements(svc))
		r.Get("/settlements/:id", GetSettlement(svc))
		r.Post("/settlements/:id/paid", MarkSettlementPaid(svc))
		r.Post("/settlements/:id/confirm", ConfirmSettlement(svc))
		r.Post("/settlements/:id/dispute", DisputeSettlement(svc))
	}
	payer := newApp("x", "user", routes)
	payee := newApp("y", "user", routes)
	outsider := newApp("z", "user", routes)
	base := "/api/v1/settlements/" + st.ID

	status, body := do(t, payer, http.MethodGet, "/api/v1/settlements", nil)
	if list := decode[[]settlement.Settlement](t, body); status != fiber.StatusOK || len(list) != 1 {
		t.Fatalf("expected the payer to see one settlement, got %d %s", status, body)
	}
	status, body = do(t, outsider, http.MethodGet, "/api/v1/settlements", nil)
	if status != fiber.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected an empty list for an outsider, got %d %s", status, body)
	}

	steps := []struct {
		name   string
		app    *fiber.App
		method string
		path   string
		want   int
		status settlement.Status
	}{
		{"outsider cannot read", outsider, http.MethodGet, base, fiber.StatusForbidden, ""},
		{"unknown id", payer, http.MethodGet, "/api/v1/settlements/missing", fiber.StatusNotFound, ""},
		{"payee cannot mark paid", payee, http.MethodPost, base + "/paid", fiber.StatusForbidden, ""},
		{"payer cannot confirm yet", payer, http.MethodPost, base + "/confirm", fiber.StatusForbidden, ""},
		{"payee cannot confirm before payment", payee, http.MethodPost, base + "/confirm", fiber.StatusConflict, ""},
		{"payer marks paid", payer, http.MethodPost, base + "/paid", fiber.StatusOK, settlement.StatusPaid},
		{"payer cannot mark paid twice", payer, http.MethodPost, base + "/paid", fiber.StatusConflict, ""},
		{"payee confirms", payee, http.MethodPost, base + "/confirm", fiber.StatusOK, settlement.StatusSettled},
		{"settled cannot be disputed", payee, http.MethodPost, base + "/dispute", fiber.StatusConflict, ""},
		{"payee reads it", payee, http.MethodGet, base, fiber.StatusOK, settlement.StatusSettled},
	}
	for _, step := range steps {
		status, body := do(t, step.app, step.method, step.path, nil)
		if status != step.want {
			t.Fatalf("%s: expected %d, got %d: %s", step.name, step.want, status, body)
		}
		if step.status == "" {
			continue
		}
		if got := decode[settlement.Settlement](t, body); got.Status != step.status {
			t.Fatalf("%s: expected status %s, got %s", step.name, step.status, got.Status)
		}
	}
}

func TestWriteEvents(t *testing.T) {
	messages := make(chan []byte, 2)
	messages <- []byte(`{"type":"settlement.paid"}`)
	messages <- []byte(`{"type":"settlement.created"}`)
	close(messages)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	writeEvents(w, messages, nil)

	want := ": connected\n\n" +
		"data: {\"type\":\"settlement.paid\"}\n\n" +
		"data: {\"type\":\"settlement.created\"}\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected stream:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriteEventsKeepAlive(t *testing.T) {
	messages := make(chan []byte)
	keepAlive := make(chan time.Time, 1)
	keepAlive <- time.Now()

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	done := make(chan struct{})
	go func() {
		writeEvents(w, messages, keepAlive)
		close(done)
	}()

	// The ping is flushed before the stream sees the close.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("keep-alive was never written")
		case <-time.After(10 * time.Millisecond):
		}
		if len(keepAlive) == 0 {
			break
		}
	}
	close(messages)
	<-done

	if !strings.Contains(buf.String(), ": ping\n\n") {
		t.Fatalf("expected a keep-alive comment, got %q", buf.String())
	}
}

func TestNotificationStreamWithStoppedHub(t *testing.T) {
	hub := notify.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	app := newApp("u", "user", func(r fiber.Router) { r.Get("/notifications/stream", NotificationStream(hub)) })
	if status, _ := do(t, app, http.MethodGet, "/api/v1/notifications/stream", nil); status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
}
