package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/releasewizard/api/internal/dialogue"
	"github.com/releasewizard/api/internal/intent"
	"github.com/releasewizard/api/internal/knowledge"
	"github.com/releasewizard/api/internal/middleware"
	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/service"
	"github.com/releasewizard/api/internal/session"
	ws "github.com/releasewizard/api/internal/websocket"
	"github.com/releasewizard/api/pkg/response"
)

const testJWTSecret = "test-secret"

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	hub := ws.NewHub()
	go hub.Run()

	sessions := session.NewStore()
	controller := dialogue.New(intent.NewRuleClassifier(), knowledge.NewResponder(nil), 20)
	wizard := service.NewWizardService(sessions, controller, hub)
	h := NewWizardHandler(wizard, nil, validator.New())

	auth := middleware.NewAuthMiddleware(testJWTSecret)

	app := fiber.New()
	api := app.Group("/api", auth.Authenticate())
	api.Post("/wizard/session", h.StartSession)
	api.Post("/wizard/session/:sessionId/message", h.Message)
	api.Get("/wizard/session/:sessionId", h.GetState)
	api.Post("/wizard/session/:sessionId/reset", h.Reset)
	api.Post("/wizard/session/:sessionId/submit", h.Submit)

	return app
}

func testToken(t *testing.T, userID, artist string, payout bool) string {
	t.Helper()
	token, err := middleware.NewAuthMiddleware(testJWTSecret).GenerateToken(userID, artist, payout)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func startSession(t *testing.T, app *fiber.App, token string) model.StartSessionResponse {
	t.Helper()
	resp := doRequest(t, app, "POST", "/api/wizard/session", token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start session: status = %d", resp.StatusCode)
	}
	var out model.StartSessionResponse
	decodeJSON(t, resp, &out)
	if out.SessionID == "" {
		t.Fatal("start session: empty sessionId")
	}
	return out
}

func TestStartSessionRequiresAuth(t *testing.T) {
	app := setupTestApp(t)

	resp := doRequest(t, app, "POST", "/api/wizard/session", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	resp = doRequest(t, app, "POST", "/api/wizard/session", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", resp.StatusCode)
	}
}

func TestStartSession(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", true)

	out := startSession(t, app, token)
	if out.Step != model.StepIntro {
		t.Errorf("step = %s, want intro", out.Step)
	}
	if out.Prompt == "" {
		t.Error("prompt must not be empty")
	}
	if out.Draft.Artist != "Nova" {
		t.Errorf("draft artist = %q, want Nova", out.Draft.Artist)
	}
}

func TestStartSessionPayoutGate(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", false)

	out := startSession(t, app, token)
	if out.Step != model.StepPayoutGate {
		t.Errorf("step = %s, want payoutGate", out.Step)
	}
}

func TestMessageFlow(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", true)
	sess := startSession(t, app, token)

	resp := doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/message", token,
		model.MessageRequest{Text: "I want to release a hip hop single called 'Empire' ASAP"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out model.MessageResponse
	decodeJSON(t, resp, &out)
	if out.Draft.Title != "Empire" {
		t.Errorf("draft title = %q, want Empire", out.Draft.Title)
	}
	if out.Reply == "" {
		t.Error("reply must not be empty")
	}
}

func TestMessageValidation(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", true)
	sess := startSession(t, app, token)

	resp := doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/message", token,
		model.MessageRequest{Text: ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty text: status = %d, want 400", resp.StatusCode)
	}
}

func TestMessageUnknownSession(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", true)

	resp := doRequest(t, app, "POST", "/api/wizard/session/does-not-exist/message", token,
		model.MessageRequest{Text: "hi"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

// A session belonging to another user looks exactly like a missing one.
func TestMessageForeignSession(t *testing.T) {
	app := setupTestApp(t)
	owner := testToken(t, "user-1", "Nova", true)
	intruder := testToken(t, "user-2", "Vega", true)
	sess := startSession(t, app, owner)

	resp := doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/message", intruder,
		model.MessageRequest{Text: "hi"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetStateIncludesLog(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", true)
	sess := startSession(t, app, token)

	doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/message", token,
		model.MessageRequest{Text: "hi"})

	resp := doRequest(t, app, "GET", "/api/wizard/session/"+sess.SessionID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out model.SessionStateResponse
	decodeJSON(t, resp, &out)
	if out.SessionID != sess.SessionID {
		t.Errorf("sessionId = %q, want %q", out.SessionID, sess.SessionID)
	}
	// Greeting, user turn, assistant reply.
	if len(out.Log) < 3 {
		t.Errorf("log has %d turns, want at least 3", len(out.Log))
	}
	if out.Step != model.StepTitle {
		t.Errorf("step = %s, want title after greeting", out.Step)
	}
}

func TestResetKeepsSessionID(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", true)
	sess := startSession(t, app, token)

	doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/message", token,
		model.MessageRequest{Text: "hi"})

	resp := doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/reset", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out model.StartSessionResponse
	decodeJSON(t, resp, &out)
	if out.SessionID != sess.SessionID {
		t.Errorf("reset changed the session ID: %q -> %q", sess.SessionID, out.SessionID)
	}
	if out.Step != model.StepIntro || out.Draft.Title != "" {
		t.Errorf("reset did not start over: step=%s draft=%+v", out.Step, out.Draft)
	}
}

func TestSubmitBehindPayoutGate(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", false)
	sess := startSession(t, app, token)

	resp := doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/submit", token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	var out response.ErrorResponse
	decodeJSON(t, resp, &out)
	if out.Error.Code != response.CodePayoutRequired {
		t.Errorf("error code = %q, want %q", out.Error.Code, response.CodePayoutRequired)
	}
}

func TestSubmitBeforeReviewRejected(t *testing.T) {
	app := setupTestApp(t)
	token := testToken(t, "user-1", "Nova", true)
	sess := startSession(t, app, token)

	resp := doRequest(t, app, "POST", "/api/wizard/session/"+sess.SessionID+"/submit", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
