package domain

import (
	"github.com/google/uuid"

	dErrors "africonnect/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a ContractID can never be passed
// where a TransactionID is expected.
type (
	UserID        uuid.UUID
	ContractID    uuid.UUID
	MilestoneID   uuid.UUID
	TransactionID uuid.UUID
	ServiceID     uuid.UUID
	RegulationID  uuid.UUID
)

type typedID interface {
	~[16]byte
}

func parseID[T typedID](s, kind string) (T, error) {
	var zero T
	if s == "" {
		return zero, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return zero, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return zero, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return T(parsed), nil
}

func ParseUserID(s string) (UserID, error)               { return parseID[UserID](s, "user id") }
func ParseContractID(s string) (ContractID, error)       { return parseID[ContractID](s, "contract id") }
func ParseMilestoneID(s string) (MilestoneID, error)     { return parseID[MilestoneID](s, "milestone id") }
func ParseTransactionID(s string) (TransactionID, error) { return parseID[TransactionID](s, "transaction id") }
func ParseServiceID(s string) (ServiceID, error)         { return parseID[ServiceID](s, "service id") }
func ParseRegulationID(s string) (RegulationID, error)   { return parseID[RegulationID](s, "regulation id") }

func NewContractID() ContractID       { return ContractID(uuid.New()) }
func NewMilestoneID() MilestoneID     { return MilestoneID(uuid.New()) }
func NewTransactionID() TransactionID { return TransactionID(uuid.New()) }

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id ContractID) String() string    { return uuid.UUID(id).String() }
func (id MilestoneID) String() string   { return uuid.UUID(id).String() }
func (id TransactionID) String() string { return uuid.UUID(id).String() }
func (id ServiceID) String() string     { return uuid.UUID(id).String() }
func (id RegulationID) String() string  { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ContractID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id MilestoneID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id TransactionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ServiceID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id RegulationID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// Text marshalling lets typed IDs appear as canonical strings in JSON bodies
// and as map keys.

func (id UserID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id ContractID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id MilestoneID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id TransactionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ServiceID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id RegulationID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error        { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ContractID) UnmarshalText(b []byte) error    { return unmarshalID((*uuid.UUID)(id), b) }
func (id *MilestoneID) UnmarshalText(b []byte) error   { return unmarshalID((*uuid.UUID)(id), b) }
func (id *TransactionID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ServiceID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *RegulationID) UnmarshalText(b []byte) error  { return unmarshalID((*uuid.UUID)(id), b) }

func unmarshalID(dst *uuid.UUID, b []byte) error {
	if len(b) == 0 {
		*dst = uuid.Nil
		return nil
	}
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid identifier")
	}
	*dst = parsed
	return nil
}
