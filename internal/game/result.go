package game

import "fmt"

// Reason is the code of a rejected local operation
type Reason int

const (
	ReasonNone Reason = iota
	UnknownStructure
	UnknownTechnology
	TechNotUnlocked
	PrerequisitesNotMet
	LimitReached
	CannotAfford
	QueueFull
	SlotsFull
	InsufficientResources
	AlreadyCompleted
	AlreadyQueued
	InvalidIndex
	NotQueued
)

var reasonNames = [...]string{
	ReasonNone:            "none",
	UnknownStructure:      "unknown_structure",
	UnknownTechnology:     "unknown_technology",
	TechNotUnlocked:       "tech_not_unlocked",
	PrerequisitesNotMet:   "prerequisites_not_met",
	LimitReached:          "limit_reached",
	CannotAfford:          "cannot_afford",
	QueueFull:             "queue_full",
	SlotsFull:             "slots_full",
	InsufficientResources: "insufficient_resources",
	AlreadyCompleted:      "already_completed",
	AlreadyQueued:         "already_queued",
	InvalidIndex:          "invalid_index",
	NotQueued:             "not_queued",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Result is the outcome of an inbound command
type Result struct {
	OK     bool
	Reason Reason
	// ItemID identifies the queue item created by a successful build request
	ItemID string
}

func accepted() Result {
	return Result{OK: true}
}

func rejected(r Reason) Result {
	return Result{Reason: r}
}

// Err returns nil for an accepted result and a *RejectedError otherwise
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &RejectedError{Reason: r.Reason}
}

// RejectedError adapts a rejected Result to error
type RejectedError struct {
	Reason Reason
}

func (e *RejectedError) Error() string {
	return "rejected: " + e.Reason.String()
}

// Is matches any RejectedError carrying the same reason
func (e *RejectedError) Is(target error) bool {
	t, ok := target.(*RejectedError)
	return ok && t.Reason == e.Reason
}

// Sentinels for errors.Is
var (
	ErrUnknownStructure      = &RejectedError{Reason: UnknownStructure}
	ErrUnknownTechnology     = &RejectedError{Reason: UnknownTechnology}
	ErrTechNotUnlocked       = &RejectedError{Reason: TechNotUnlocked}
	ErrPrerequisitesNotMet   = &RejectedError{Reason: PrerequisitesNotMet}
	ErrLimitReached          = &RejectedError{Reason: LimitReached}
	ErrCannotAfford          = &RejectedError{Reason: CannotAfford}
	ErrQueueFull             = &RejectedError{Reason: QueueFull}
	ErrSlotsFull             = &RejectedError{Reason: SlotsFull}
	ErrInsufficientResources = &RejectedError{Reason: InsufficientResources}
	ErrAlreadyCompleted      = &RejectedError{Reason: AlreadyCompleted}
	ErrAlreadyQueued         = &RejectedError{Reason: AlreadyQueued}
	ErrInvalidIndex          = &RejectedError{Reason: InvalidIndex}
	ErrNotQueued             = &RejectedError{Reason: NotQueued}
)
