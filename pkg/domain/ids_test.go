package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmissionID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSubmissionID("")
		assert.Error(t, err)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParseSubmissionID("not-a-uuid")
		assert.Error(t, err)
	})

	t.Run("round-trips a valid UUID", func(t *testing.T) {
		raw := uuid.New()
		parsed, err := ParseSubmissionID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, raw.String(), parsed.String())
		assert.False(t, parsed.IsNil())
	})
}

func TestIDsAreDistinctTypes(t *testing.T) {
	// Typed IDs exist so a submission ID cannot be passed where a document
	// ID is expected. The following would not compile:
	//   var _ DocumentID = NewSubmissionID()
	submissionID := NewSubmissionID()
	documentID := NewDocumentID()
	assert.NotEqual(t, submissionID.String(), documentID.String())
}

func TestIDJSONRoundTrip(t *testing.T) {
	submissionID := NewSubmissionID()

	raw, err := json.Marshal(submissionID)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+submissionID.String()+`"`, string(raw))

	var decoded SubmissionID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, submissionID, decoded)

	var invalid SubmissionID
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &invalid))
}

func TestIsNil(t *testing.T) {
	assert.True(t, SubmissionID{}.IsNil())
	assert.True(t, DocumentID{}.IsNil())
	assert.True(t, VersionID{}.IsNil())
	assert.False(t, NewVersionID().IsNil())
}
