package model

type SessionEvent string

const (
	SessionEventConfirm  SessionEvent = "confirm"
	SessionEventReject   SessionEvent = "reject"
	SessionEventCancel   SessionEvent = "cancel"
	SessionEventComplete SessionEvent = "complete"
)

// SessionTransition is one allowed edge of the session lifecycle.
type SessionTransition struct {
	From  SessionStatus
	Event SessionEvent
	To    SessionStatus
	Roles []Role
}

var sessionTransitions = []SessionTransition{
	// Решение тьютора по новой записи
	{From: SessionStatusPending, Event: SessionEventConfirm, To: SessionStatusConfirmed, Roles: []Role{RoleTutor}},
	{From: SessionStatusPending, Event: SessionEventReject, To: SessionStatusRejected, Roles: []Role{RoleTutor}},

	// Отмена
	{From: SessionStatusPending, Event: SessionEventCancel, To: SessionStatusCancelled, Roles: []Role{RoleTutor, RoleStudent, RoleAdmin}},
	{From: SessionStatusConfirmed, Event: SessionEventCancel, To: SessionStatusCancelled, Roles: []Role{RoleTutor, RoleStudent, RoleAdmin}},

	{From: SessionStatusConfirmed, Event: SessionEventComplete, To: SessionStatusCompleted, Roles: []Role{RoleTutor, RoleAdmin}},
}

// SessionTransitionFor returns the edge for status+event, if one exists.
func SessionTransitionFor(from SessionStatus, ev SessionEvent) (SessionTransition, bool) {
	from = NormalizeSessionStatus(string(from))
	for _, tr := range sessionTransitions {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return SessionTransition{}, false
}

// AllowsRole reports whether the role may trigger this transition.
func (t SessionTransition) AllowsRole(role Role) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}
