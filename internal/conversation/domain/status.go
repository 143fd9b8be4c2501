package domain

// Status is the lifecycle state of a conversation.
type Status string

const (
	StatusNew                  Status = "NEW"
	StatusQualifying           Status = "QUALIFYING"
	StatusBriefReady           Status = "BRIEF_READY"
	StatusPendingOwnerApproval Status = "PENDING_OWNER_APPROVAL"
	StatusApproved             Status = "APPROVED"
	StatusRejected             Status = "REJECTED"
)

// Fixed assistant replies used when the pipeline overrides the model output.
const (
	ReplyHandOff     = "He enviado tu solicitud al equipo. En breve te confirmaremos por WhatsApp o correo. Tu solicitud está en revisión por el equipo."
	ReplyUnderReview = "Tu solicitud está en revisión por el equipo. En breve te confirmaremos por WhatsApp o correo."
)

// Valid reports whether s is a known conversation status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusQualifying, StatusBriefReady, StatusPendingOwnerApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status is an admin decision state.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// AutoAdvances reports whether the message pipeline may move the conversation
// forward from this status. PENDING_OWNER_APPROVAL and the decision states
// only change through admin action.
func (s Status) AutoAdvances() bool {
	switch s {
	case StatusPendingOwnerApproval, StatusApproved, StatusRejected:
		return false
	}
	return true
}

// NextStatus computes the status after a processed user message.
//
// Frozen states never move. Explicit intent escalates straight to
// PENDING_OWNER_APPROVAL. A complete brief moves to BRIEF_READY, or to
// PENDING_OWNER_APPROVAL when the heuristic score clears the escalation
// threshold. A fresh conversation starts qualifying; anything else holds
// its current status.
func NextStatus(current Status, intent, briefReady bool, heuristic int) Status {
	if !current.AutoAdvances() {
		return current
	}

	next := current
	switch {
	case intent:
		next = StatusPendingOwnerApproval
	case briefReady:
		next = StatusBriefReady
	case current == StatusNew:
		next = StatusQualifying
	}

	if next == StatusBriefReady && heuristic >= EscalationScore {
		next = StatusPendingOwnerApproval
	}
	return next
}
