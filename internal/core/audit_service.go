package core

import (
	"context"
	"encoding/json"
	"fmt"

	"lifeos.app/life-audit/internal/store"
)

// Generator is the outbound contract to the generative model gateway.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, userContent string) (string, error)
}

// Store is what the orchestrators need from the record store: append-only
// audit persistence plus user lookup for the auth middleware. Both handles
// are injected once at startup and shared read-only across requests.
type Store interface {
	InsertAudit(userID int64, inputData, aiResponse json.RawMessage) (*store.AuditRecord, error)
	ListAuditsByUserID(userID int64, limit int) ([]store.AuditRecord, error)
	GetUserByExternalID(externalUserID string) (*store.User, error)
	CreateUser(externalUserID, passwordHash string) (*store.User, error)
}

type AuditService struct {
	dbStore    Store
	llmService Generator
}

func NewAuditService(db Store, llm Generator) *AuditService {
	return &AuditService{
		dbStore:    db,
		llmService: llm,
	}
}

func (s *AuditService) GetUserByExternalID(externalUserID string) (*store.User, error) {
	return s.dbStore.GetUserByExternalID(externalUserID)
}

func (s *AuditService) CreateUser(externalUserID, passwordHash string) (*store.User, error) {
	return s.dbStore.CreateUser(externalUserID, passwordHash)
}

// CreateAudit runs one full audit generation: serialize the survey verbatim,
// call the model with the audit prompt, validate the output, persist, return.
// The insert happens-after successful validation; if persistence fails the
// caller gets an error and never the unsaved result, since the store is the
// only way an audit can later be retrieved.
func (s *AuditService) CreateAudit(ctx context.Context, userID int64, surveyInput map[string]any) (*AuditResult, error) {
	inputJSON, err := json.Marshal(surveyInput)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize survey input: %w", err)
	}

	raw, err := s.llmService.Generate(ctx, auditSystemInstruction, fmt.Sprintf(auditUserContentFmt, inputJSON))
	if err != nil {
		return nil, fmt.Errorf("audit generation failed: %w", err)
	}

	result, err := ParseAuditResult(raw)
	if err != nil {
		return nil, err
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize audit result: %w", err)
	}

	if _, err := s.dbStore.InsertAudit(userID, inputJSON, responseJSON); err != nil {
		return nil, fmt.Errorf("failed to save audit: %w", err)
	}
	return result, nil
}

// CreateRoadmap derives an ephemeral 12-week roadmap from the user's most
// recent audit. The audit is read before the model call, so the roadmap
// reflects a stable snapshot of one record. Nothing is persisted; repeated
// calls regenerate from scratch.
func (s *AuditService) CreateRoadmap(ctx context.Context, userID int64) (*RoadmapResult, error) {
	audits, err := s.dbStore.ListAuditsByUserID(userID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest audit: %w", err)
	}
	if len(audits) == 0 {
		return nil, ErrNoAuditFound
	}

	auditJSON, err := json.Marshal(audits[0])
	if err != nil {
		return nil, fmt.Errorf("failed to serialize latest audit: %w", err)
	}

	raw, err := s.llmService.Generate(ctx, roadmapSystemInstruction, fmt.Sprintf(roadmapUserContentFmt, auditJSON))
	if err != nil {
		return nil, fmt.Errorf("roadmap generation failed: %w", err)
	}

	return ParseRoadmapResult(raw)
}

// AuditHistory returns all of the user's audits, most recent first.
func (s *AuditService) AuditHistory(userID int64) ([]store.AuditRecord, error) {
	return s.dbStore.ListAuditsByUserID(userID, 0)
}
