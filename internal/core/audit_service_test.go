package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeos.app/life-audit/internal/store"
)

type fakeGenerator struct {
	raw        string
	err        error
	lastSystem string
	lastUser   string
}

func (g *fakeGenerator) Generate(ctx context.Context, systemInstruction, userContent string) (string, error) {
	g.lastSystem = systemInstruction
	g.lastUser = userContent
	return g.raw, g.err
}

type fakeStore struct {
	records   []store.AuditRecord
	insertErr error
	listErr   error
	lastLimit int
}

func (s *fakeStore) InsertAudit(userID int64, inputData, aiResponse json.RawMessage) (*store.AuditRecord, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	record := store.AuditRecord{
		ID:         "audit-1",
		UserID:     userID,
		InputData:  inputData,
		AIResponse: aiResponse,
		CreatedAt:  time.Now(),
	}
	s.records = append(s.records, record)
	return &record, nil
}

func (s *fakeStore) ListAuditsByUserID(userID int64, limit int) ([]store.AuditRecord, error) {
	s.lastLimit = limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	owned := []store.AuditRecord{}
	for _, r := range s.records {
		if r.UserID == userID {
			owned = append(owned, r)
		}
	}
	return owned, nil
}

func (s *fakeStore) GetUserByExternalID(externalUserID string) (*store.User, error) {
	return nil, nil
}

func (s *fakeStore) CreateUser(externalUserID, passwordHash string) (*store.User, error) {
	return nil, nil
}

func TestCreateAudit_Success(t *testing.T) {
	gen := &fakeGenerator{raw: validAuditJSON}
	db := &fakeStore{}
	svc := NewAuditService(db, gen)

	result, err := svc.CreateAudit(context.Background(), 7, map[string]any{"age": 25, "sleep_hours": 7})
	require.NoError(t, err)

	assert.Equal(t, 72, result.LifeScore)

	// The gateway got the audit prompt and the serialized survey verbatim.
	assert.Contains(t, gen.lastSystem, "elite life systems analyst")
	assert.Contains(t, gen.lastUser, `"age":25`)
	assert.True(t, strings.HasPrefix(gen.lastUser, "Analyze this user's life system using their data:"))

	// The validated result was persisted for the right user.
	require.Len(t, db.records, 1)
	assert.Equal(t, int64(7), db.records[0].UserID)

	var saved AuditResult
	require.NoError(t, json.Unmarshal(db.records[0].AIResponse, &saved))
	assert.Equal(t, 72, saved.LifeScore)
}

func TestCreateAudit_MalformedOutputNotPersisted(t *testing.T) {
	gen := &fakeGenerator{raw: `{"life_score": 80, "overview": "ok", "strengths": ["a"]}`}
	db := &fakeStore{}
	svc := NewAuditService(db, gen)

	_, err := svc.CreateAudit(context.Background(), 7, map[string]any{"age": 25})

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Empty(t, db.records, "malformed output must never reach the store")
}

func TestCreateAudit_UpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	db := &fakeStore{}
	svc := NewAuditService(db, gen)

	_, err := svc.CreateAudit(context.Background(), 7, map[string]any{"age": 25})
	require.ErrorContains(t, err, "quota exceeded")
	assert.Empty(t, db.records)
}

func TestCreateAudit_PersistenceFailureSurfaced(t *testing.T) {
	// A valid generation that cannot be saved is an error to the caller; the
	// result is never returned unsaved.
	gen := &fakeGenerator{raw: validAuditJSON}
	db := &fakeStore{insertErr: errors.New("disk full")}
	svc := NewAuditService(db, gen)

	result, err := svc.CreateAudit(context.Background(), 7, map[string]any{"age": 25})
	require.ErrorContains(t, err, "failed to save audit")
	assert.Nil(t, result)
}

func TestCreateRoadmap_NoAuditFound(t *testing.T) {
	gen := &fakeGenerator{raw: validRoadmapJSON}
	db := &fakeStore{}
	svc := NewAuditService(db, gen)

	_, err := svc.CreateRoadmap(context.Background(), 7)
	require.ErrorIs(t, err, ErrNoAuditFound)
	assert.Empty(t, gen.lastSystem, "gateway must not be called without an audit")
}

func TestCreateRoadmap_SeededFromLatestAudit(t *testing.T) {
	gen := &fakeGenerator{raw: validAuditJSON}
	db := &fakeStore{}
	svc := NewAuditService(db, gen)

	_, err := svc.CreateAudit(context.Background(), 7, map[string]any{"age": 25})
	require.NoError(t, err)

	gen.raw = validRoadmapJSON
	roadmap, err := svc.CreateRoadmap(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 1, db.lastLimit, "roadmap reads exactly the most recent audit")
	assert.Contains(t, gen.lastSystem, "elite life systems architect")
	assert.True(t, strings.HasPrefix(gen.lastUser, "Generate a roadmap for this user based on their latest audit:"))
	assert.Contains(t, gen.lastUser, `"id":"audit-1"`, "the stored record is serialized verbatim")
	assert.Equal(t, "12-Week Life Optimization Protocol", roadmap.Title)
	assert.Len(t, roadmap.Weeks, 2)
}

func TestCreateRoadmap_MalformedOutput(t *testing.T) {
	gen := &fakeGenerator{raw: validAuditJSON}
	db := &fakeStore{}
	svc := NewAuditService(db, gen)

	_, err := svc.CreateAudit(context.Background(), 7, map[string]any{"age": 25})
	require.NoError(t, err)

	gen.raw = ""
	_, err = svc.CreateRoadmap(context.Background(), 7)

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, `missing required field "title"`, malformed.Reason)
}
