// Package storyline defines the scene plan the pipeline assembles: a closed
// set of scene roles, the default five-scene demo template, and an optional
// manifest override produced by the upstream storyline collaborator.
package storyline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role identifies what a scene contributes to the demo narrative. The set is
// closed: collaborators can reorder or repeat scenes but never invent roles.
type Role string

const (
	RoleHook        Role = "hook"
	RoleWalkthrough Role = "walkthrough"
	RoleDemo        Role = "demo"
	RoleResults     Role = "results"
	RoleTechSummary Role = "tech_summary"
)

var allRoles = []Role{
	RoleHook,
	RoleWalkthrough,
	RoleDemo,
	RoleResults,
	RoleTechSummary,
}

var roleSet = func() map[Role]struct{} {
	set := make(map[Role]struct{}, len(allRoles))
	for _, role := range allRoles {
		set[role] = struct{}{}
	}
	return set
}()

// ParseRole validates and canonicalizes a role string.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := roleSet[role]; !ok {
		return "", fmt.Errorf("unknown scene role %q", value)
	}
	return role, nil
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := roleSet[r]
	return ok
}

// Still reports whether the role is backed by a generated still frame rather
// than a screen recording.
func (r Role) Still() bool {
	return r == RoleHook || r == RoleTechSummary
}

// Title returns the display form of the role, e.g. "Tech Summary".
func (r Role) Title() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(r), "_", " "))
}

// Roles returns the closed role set in narrative order.
func Roles() []Role {
	return append([]Role(nil), allRoles...)
}
