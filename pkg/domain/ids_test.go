package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	want := uuid.New()
	id, err := ParseUserID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want.String(), id.String())
	assert.False(t, id.IsNil())
}

func TestParseRejectsBadInput(t *testing.T) {
	for name, input := range map[string]string{
		"empty":     "",
		"garbage":   "not-a-uuid",
		"nil value": uuid.Nil.String(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocumentID(input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestTypedIDsAreDistinct(t *testing.T) {
	// Zero values are nil for every ID type.
	assert.True(t, UserID{}.IsNil())
	assert.True(t, DocumentID{}.IsNil())
	assert.True(t, ApplicationID{}.IsNil())
	assert.True(t, JobID{}.IsNil())

	assert.False(t, NewApplicationID().IsNil())
	assert.False(t, NewJobID().IsNil())
}

func TestIDJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Doc DocumentID `json:"doc"`
	}
	id := NewDocumentID()
	raw, err := json.Marshal(wrapper{Doc: id})
	require.NoError(t, err)
	assert.Equal(t, `{"doc":"`+id.String()+`"}`, string(raw))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded.Doc)

	assert.Error(t, json.Unmarshal([]byte(`{"doc":"nope"}`), &decoded))
}

func TestParseActorRole(t *testing.T) {
	role, err := ParseActorRole("verifier")
	require.NoError(t, err)
	assert.Equal(t, RoleVerifier, role)

	_, err = ParseActorRole("superuser")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
