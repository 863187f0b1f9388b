package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *SQLiteStore, externalID string) *User {
	t.Helper()
	user, err := s.CreateUser(externalID, "hash")
	require.NoError(t, err)
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)

	user := createTestUser(t, s, "alice")
	assert.Equal(t, "alice", user.ExternalUserID)
	assert.NotZero(t, user.ID)

	found, err := s.GetUserByExternalID("alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := s.GetUserByExternalID("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertAudit(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "alice")

	input := json.RawMessage(`{"age":25,"sleep_hours":7}`)
	response := json.RawMessage(`{"life_score":72}`)

	record, err := s.InsertAudit(user.ID, input, response)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, user.ID, record.UserID)
	assert.False(t, record.CreatedAt.IsZero())

	audits, err := s.ListAuditsByUserID(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, record.ID, audits[0].ID)
	assert.JSONEq(t, string(input), string(audits[0].InputData))
	assert.JSONEq(t, string(response), string(audits[0].AIResponse))
}

func TestListAudits_EmptyIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "alice")

	audits, err := s.ListAuditsByUserID(user.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, audits)
	assert.Empty(t, audits)
}

func TestListAudits_RecencyOrdering(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "alice")

	var ids []string
	for i := 0; i < 3; i++ {
		record, err := s.InsertAudit(user.ID, json.RawMessage(`{}`), json.RawMessage(`{"life_score":50}`))
		require.NoError(t, err)
		ids = append(ids, record.ID)
		time.Sleep(5 * time.Millisecond) // distinct timestamps
	}

	audits, err := s.ListAuditsByUserID(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, audits, 3)

	// Most recent first, strictly descending.
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{audits[0].ID, audits[1].ID, audits[2].ID})
	assert.True(t, audits[0].CreatedAt.After(audits[1].CreatedAt))
	assert.True(t, audits[1].CreatedAt.After(audits[2].CreatedAt))

	// limit=1 returns exactly the most recently inserted record.
	latest, err := s.ListAuditsByUserID(user.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, ids[2], latest[0].ID)
}

func TestListAudits_OwnershipIsolation(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	_, err := s.InsertAudit(alice.ID, json.RawMessage(`{"owner":"alice"}`), json.RawMessage(`{"life_score":60}`))
	require.NoError(t, err)
	_, err = s.InsertAudit(bob.ID, json.RawMessage(`{"owner":"bob"}`), json.RawMessage(`{"life_score":40}`))
	require.NoError(t, err)
	_, err = s.InsertAudit(bob.ID, json.RawMessage(`{"owner":"bob"}`), json.RawMessage(`{"life_score":45}`))
	require.NoError(t, err)

	aliceAudits, err := s.ListAuditsByUserID(alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, aliceAudits, 1)
	for _, a := range aliceAudits {
		assert.Equal(t, alice.ID, a.UserID)
	}

	bobAudits, err := s.ListAuditsByUserID(bob.ID, 0)
	require.NoError(t, err)
	assert.Len(t, bobAudits, 2)
}
