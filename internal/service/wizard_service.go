package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/releasewizard/api/internal/dialogue"
	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/session"
	ws "github.com/releasewizard/api/internal/websocket"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// ErrPayoutRequired is returned for submit/upload attempts on a session
// still blocked by the payout gate.
var ErrPayoutRequired = errors.New("payout method required")

// WizardService owns session lifecycle and funnels every utterance through
// the dialogue controller. One session is processed by one goroutine at a
// time; the per-session lock keeps utterances strictly in submission order.
type WizardService struct {
	sessions   *session.Store
	controller *dialogue.Controller
	hub        *ws.Hub
}

func NewWizardService(sessions *session.Store, controller *dialogue.Controller, hub *ws.Hub) *WizardService {
	return &WizardService{
		sessions:   sessions,
		controller: controller,
		hub:        hub,
	}
}

// StartSession creates a session seeded from the caller's identity.
func (s *WizardService) StartSession(userID, artist string, payoutConnected bool) *model.StartSessionResponse {
	sess := s.sessions.Create(userID, artist, payoutConnected)

	sess.Lock()
	defer sess.Unlock()

	prompt := dialogue.Prompt(sess)
	sess.AppendTurn(model.RoleAssistant, prompt, dialogue.SourceRules)

	return &model.StartSessionResponse{
		SessionID: sess.ID,
		Step:      sess.Step,
		Prompt:    prompt,
		Draft:     *sess.Draft,
	}
}

// HandleMessage is the wizard's single submit entry point.
func (s *WizardService) HandleMessage(ctx context.Context, sessionID, userID, text string) (*model.MessageResponse, error) {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	reply := s.controller.Handle(ctx, sess, text)

	sess.AppendTurn(model.RoleUser, text, "")
	sess.AppendTurn(model.RoleAssistant, reply.Text, reply.SourceLabel)

	s.hub.BroadcastDraft(sess.ID, sess.Step, *sess.Draft)

	return &model.MessageResponse{
		Reply:       reply.Text,
		SourceLabel: reply.SourceLabel,
		Step:        sess.Step,
		Draft:       *sess.Draft,
	}, nil
}

// GetState returns the full session snapshot for rendering.
func (s *WizardService) GetState(sessionID, userID string) (*model.SessionStateResponse, error) {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	logCopy := make([]model.ConversationTurn, len(sess.Log))
	copy(logCopy, sess.Log)

	return &model.SessionStateResponse{
		SessionID: sess.ID,
		Step:      sess.Step,
		Prompt:    dialogue.Prompt(sess),
		Draft:     *sess.Draft,
		Log:       logCopy,
	}, nil
}

// Reset discards the draft and conversation and starts over.
func (s *WizardService) Reset(sessionID, userID string) (*model.StartSessionResponse, error) {
	if _, err := s.ownedSession(sessionID, userID); err != nil {
		return nil, err
	}

	sess := s.sessions.Reset(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	prompt := dialogue.Prompt(sess)
	sess.AppendTurn(model.RoleAssistant, prompt, dialogue.SourceRules)

	return &model.StartSessionResponse{
		SessionID: sess.ID,
		Step:      sess.Step,
		Prompt:    prompt,
		Draft:     *sess.Draft,
	}, nil
}

// Submit moves a reviewed draft to submitted.
func (s *WizardService) Submit(sessionID, userID string) (*model.SubmitResponse, error) {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Step == model.StepPayoutGate {
		return nil, ErrPayoutRequired
	}

	reply, err := s.controller.Submit(sess)
	if err != nil {
		return nil, err
	}

	sess.AppendTurn(model.RoleAssistant, reply.Text, reply.SourceLabel)
	s.hub.BroadcastDraft(sess.ID, sess.Step, *sess.Draft)

	return &model.SubmitResponse{
		Step:  sess.Step,
		Draft: *sess.Draft,
	}, nil
}

// RegisterAsset records an uploaded asset ref on the draft. The file itself
// is never inspected here; analysis happens in a background job.
func (s *WizardService) RegisterAsset(sessionID, userID string, kind model.AssetKind, fileName string) (string, *model.MessageResponse, error) {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return "", nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Step == model.StepPayoutGate {
		return "", nil, ErrPayoutRequired
	}

	assetRef := uuid.New().String()
	sess.AppendTurn(model.RoleSystem, "[System: user uploaded "+fileName+"]", "")

	reply := s.controller.RecordUpload(sess, kind, assetRef)
	sess.AppendTurn(model.RoleAssistant, reply.Text, reply.SourceLabel)

	s.hub.BroadcastDraft(sess.ID, sess.Step, *sess.Draft)

	return assetRef, &model.MessageResponse{
		Reply:       reply.Text,
		SourceLabel: reply.SourceLabel,
		Step:        sess.Step,
		Draft:       *sess.Draft,
	}, nil
}

func (s *WizardService) ownedSession(sessionID, userID string) (*session.Session, error) {
	sess := s.sessions.Get(sessionID)
	if sess == nil || sess.UserID != userID {
		// A session belonging to someone else is indistinguishable from a
		// missing one on purpose.
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
