package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTaskAssigned      = "task.assigned"
	EventTypeCreditsRecharged  = "credits.recharged"
	EventTypeCreditsUsed       = "credits.used"
	EventTypeCreditsLowBalance = "credits.low_balance"
)

// DomainEventTypes is every event type the application publishes.
var DomainEventTypes = []string{
	EventTypeTaskAssigned,
	EventTypeCreditsRecharged,
	EventTypeCreditsUsed,
	EventTypeCreditsLowBalance,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type TaskAssignedEvent struct {
	BaseEvent
	TaskID       string  `json:"task_id"`
	CompanyID    string  `json:"company_id"`
	AssigneeID   string  `json:"assignee_id"`
	DepartmentID *string `json:"department_id,omitempty"`
	AssignedBy   string  `json:"assigned_by"`
}

func NewTaskAssignedEvent(taskID, companyID, assigneeID string, departmentID *string, assignedBy string) *TaskAssignedEvent {
	data := map[string]interface{}{
		"task_id":     taskID,
		"company_id":  companyID,
		"assignee_id": assigneeID,
		"assigned_by": assignedBy,
	}
	if departmentID != nil {
		data["department_id"] = *departmentID
	}
	return &TaskAssignedEvent{
		BaseEvent:    newBase(EventTypeTaskAssigned, data),
		TaskID:       taskID,
		CompanyID:    companyID,
		AssigneeID:   assigneeID,
		DepartmentID: departmentID,
		AssignedBy:   assignedBy,
	}
}

type CreditsRechargedEvent struct {
	BaseEvent
	CompanyID  string `json:"company_id"`
	RechargeID string `json:"recharge_id"`
	Credits    int64  `json:"credits"`
	Balance    int64  `json:"balance"`
}

func NewCreditsRechargedEvent(companyID, rechargeID string, credits, balance int64) *CreditsRechargedEvent {
	return &CreditsRechargedEvent{
		BaseEvent: newBase(EventTypeCreditsRecharged, map[string]interface{}{
			"company_id":  companyID,
			"recharge_id": rechargeID,
			"credits":     credits,
			"balance":     balance,
		}),
		CompanyID:  companyID,
		RechargeID: rechargeID,
		Credits:    credits,
		Balance:    balance,
	}
}

type CreditsUsedEvent struct {
	BaseEvent
	CompanyID     string `json:"company_id"`
	TransactionID string `json:"transaction_id"`
	CreditsUsed   int64  `json:"credits_used"`
	Balance       int64  `json:"balance"`
}

func NewCreditsUsedEvent(companyID, transactionID string, used, balance int64) *CreditsUsedEvent {
	return &CreditsUsedEvent{
		BaseEvent: newBase(EventTypeCreditsUsed, map[string]interface{}{
			"company_id":     companyID,
			"transaction_id": transactionID,
			"credits_used":   used,
			"balance":        balance,
		}),
		CompanyID:     companyID,
		TransactionID: transactionID,
		CreditsUsed:   used,
		Balance:       balance,
	}
}

type CreditsLowBalanceEvent struct {
	BaseEvent
	CompanyID string `json:"company_id"`
	Balance   int64  `json:"balance"`
	Threshold int64  `json:"threshold"`
}

func NewCreditsLowBalanceEvent(companyID string, balance, threshold int64) *CreditsLowBalanceEvent {
	return &CreditsLowBalanceEvent{
		BaseEvent: newBase(EventTypeCreditsLowBalance, map[string]interface{}{
			"company_id": companyID,
			"balance":    balance,
			"threshold":  threshold,
		}),
		CompanyID: companyID,
		Balance:   balance,
		Threshold: threshold,
	}
}
