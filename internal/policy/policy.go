// Package policy decides whether an actor may read or mutate a resource.
package policy

import "net/http"

// Actor is the principal behind a request. The zero value is anonymous.
type Actor struct {
	UserID int64
}

var Anonymous = Actor{}

func (a Actor) Authenticated() bool { return a.UserID != 0 }

// Owned is implemented by resources that record their author.
// OwnerID returns 0 when no owner is recorded.
type Owned interface {
	OwnerID() int64
}

// CanWrite reports whether actor may update or delete resource. Only the
// recorded owner may; there is no role-based override.
func CanWrite(actor Actor, resource Owned) bool {
	if !actor.Authenticated() || resource == nil {
		return false
	}
	owner := resource.OwnerID()
	return owner != 0 && owner == actor.UserID
}

// Allow applies read-anyone, write-owner to an HTTP method.
func Allow(method string, actor Actor, resource Owned) bool {
	if SafeMethod(method) {
		return true
	}
	return CanWrite(actor, resource)
}

func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
