package actionlog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

type ActionType string

const (
	ActionBalanceUpdate     ActionType = "BALANCE_UPDATE"
	ActionPaymentCreate     ActionType = "PAYMENT_CREATE"
	ActionTransactionCreate ActionType = "TRANSACTION_CREATE"
	ActionFamilyCreate      ActionType = "FAMILY_CREATE"
	ActionFamilyDelete      ActionType = "FAMILY_DELETE"
	ActionBalanceEdit       ActionType = "BALANCE_EDIT"
	ActionCuotaCreate       ActionType = "CUOTA_CREATE"
	ActionCuotaActivate     ActionType = "CUOTA_ACTIVATE"
	ActionUserCreate        ActionType = "USER_CREATE"
	ActionFolderUpload      ActionType = "FOLDER_UPLOAD"
	ActionManual            ActionType = "MANUAL"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionBalanceUpdate, ActionPaymentCreate, ActionTransactionCreate,
		ActionFamilyCreate, ActionFamilyDelete, ActionBalanceEdit,
		ActionCuotaCreate, ActionCuotaActivate, ActionUserCreate,
		ActionFolderUpload, ActionManual:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusError
}

// Metadata is the structured payload attached to a log. It is always a JSON
// object, so finalizing a log can merge into it key by key.
type Metadata map[string]any

// Merge returns a copy of m with extra applied on top; keys in extra win.
func (m Metadata) Merge(extra Metadata) Metadata {
	out := make(Metadata, len(m)+len(extra))
	maps.Copy(out, m)
	maps.Copy(out, extra)
	return out
}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (m *Metadata) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("actionlog: unsupported metadata type %T", value)
	}

	out := Metadata{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("actionlog: decode metadata: %w", err)
		}
	}
	*m = out
	return nil
}

type ActionLog struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	ActionType    ActionType `gorm:"not null" json:"actionType"`
	ActorID       string     `gorm:"not null" json:"actorId"`
	Status        Status     `gorm:"not null" json:"status"`
	TargetTable   *string    `json:"targetTable"`
	TargetID      *string    `json:"targetId"`
	FamilyID      *string    `gorm:"type:uuid" json:"familyId"`
	TransactionID *string    `gorm:"type:uuid" json:"transactionId"`
	RequestID     *string    `json:"requestId"`
	RunPeriod     *string    `json:"runPeriod,omitempty"`
	Message       *string    `json:"message"`
	Metadata      Metadata   `gorm:"type:jsonb" json:"metadata"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (ActionLog) TableName() string {
	return "action_logs"
}

// Extra carries the optional references recorded when a log is started.
type Extra struct {
	TargetTable   *string
	TargetID      *string
	FamilyID      *string
	TransactionID *string
	RequestID     *string
	Metadata      Metadata
}

type CreateInput struct {
	ActionType ActionType
	Status     Status
	Message    *string
	Extra
}

type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

type ListFilter struct {
	ActionType  *ActionType
	ActorID     *string
	Status      *Status
	TargetTable *string
	TargetID    *string
	From        *time.Time
	To          *time.Time
	Take        int
	Skip        int
	Order       SortOrder
}

type Page struct {
	Items []ActionLog `json:"items"`
	Total int64       `json:"total"`
	Take  int         `json:"take"`
	Skip  int         `json:"skip"`
}

// Finalization is the conditional PENDING -> SUCCESS|ERROR transition.
// ReleaseRunPeriod clears run_period so the month stays open for another run.
type Finalization struct {
	Status           Status
	Message          *string
	Metadata         Metadata
	UpdatedAt        time.Time
	ReleaseRunPeriod bool
}
