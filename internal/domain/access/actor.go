package access

import "family-dues-go/internal/apperr"

const SystemActorID = "SYSTEM"

var ErrInvalidActor = apperr.InvalidActor("no se pudo determinar el actor de la acción")

type actorKind uint8

const (
	actorUnresolved actorKind = iota
	actorSystem
	actorUser
)

// Actor identifies who performs an auditable operation. It is resolved once at
// the API boundary and passed by value afterwards.
type Actor struct {
	kind   actorKind
	userID string
}

func SystemActor() Actor {
	return Actor{kind: actorSystem}
}

func UserActor(userID string) Actor {
	if userID == "" {
		return Actor{}
	}
	return Actor{kind: actorUser, userID: userID}
}

// ActorFromSession maps an authenticated session to a user actor. A missing
// session yields an unresolved actor.
func ActorFromSession(user *SessionUser) Actor {
	if user == nil {
		return Actor{}
	}
	return UserActor(user.ID)
}

func (a Actor) IsSystem() bool {
	return a.kind == actorSystem
}

// ID returns the value stored in actor columns.
func (a Actor) ID() (string, error) {
	switch a.kind {
	case actorSystem:
		return SystemActorID, nil
	case actorUser:
		return a.userID, nil
	default:
		return "", ErrInvalidActor
	}
}

func (a Actor) String() string {
	id, err := a.ID()
	if err != nil {
		return "<unresolved>"
	}
	return id
}
