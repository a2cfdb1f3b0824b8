// Package domain defines the typed identifiers shared across governance
// services. Wrapping uuid.UUID per entity keeps IDs from being swapped
// accidentally at call sites.
package domain

import "github.com/google/uuid"

// SubmissionID identifies a moderation submission.
type SubmissionID uuid.UUID

// ActionID identifies a moderation action (audit row).
type ActionID uuid.UUID

// DocumentID identifies a legal document.
type DocumentID uuid.UUID

// VersionID identifies one localized revision of a legal document.
type VersionID uuid.UUID

// AuditEventID identifies a document audit event.
type AuditEventID uuid.UUID

func (id SubmissionID) String() string { return uuid.UUID(id).String() }
func (id ActionID) String() string     { return uuid.UUID(id).String() }
func (id DocumentID) String() string   { return uuid.UUID(id).String() }
func (id VersionID) String() string    { return uuid.UUID(id).String() }
func (id AuditEventID) String() string { return uuid.UUID(id).String() }

func (id SubmissionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id VersionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// IDs travel as their canonical UUID string form in JSON and anywhere else
// encoding.TextMarshaler applies.

func (id SubmissionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ActionID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id DocumentID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id VersionID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id AuditEventID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *SubmissionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = SubmissionID(u)
	return nil
}

func (id *ActionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ActionID(u)
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = DocumentID(u)
	return nil
}

func (id *VersionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = VersionID(u)
	return nil
}

func (id *AuditEventID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = AuditEventID(u)
	return nil
}

// NewSubmissionID returns a fresh random submission ID.
func NewSubmissionID() SubmissionID { return SubmissionID(uuid.New()) }

// NewActionID returns a fresh random action ID.
func NewActionID() ActionID { return ActionID(uuid.New()) }

// NewDocumentID returns a fresh random document ID.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewVersionID returns a fresh random version ID.
func NewVersionID() VersionID { return VersionID(uuid.New()) }

// NewAuditEventID returns a fresh random audit event ID.
func NewAuditEventID() AuditEventID { return AuditEventID(uuid.New()) }

// ParseSubmissionID parses a submission ID from its string form.
func ParseSubmissionID(s string) (SubmissionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return SubmissionID{}, err
	}
	return SubmissionID(u), nil
}

// ParseDocumentID parses a document ID from its string form.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, err
	}
	return DocumentID(u), nil
}

// ParseVersionID parses a version ID from its string form.
func ParseVersionID(s string) (VersionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return VersionID{}, err
	}
	return VersionID(u), nil
}
