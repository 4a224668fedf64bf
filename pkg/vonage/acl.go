package vonage

import (
	"fmt"
	"strings"
)

// ACLMethod is an HTTP method allowed by an ACL rule.
type ACLMethod string

// ACL methods.
const (
	ACLMethodGet    ACLMethod = "GET"
	ACLMethodPost   ACLMethod = "POST"
	ACLMethodPut    ACLMethod = "PUT"
	ACLMethodDelete ACLMethod = "DELETE"
	ACLMethodPatch  ACLMethod = "PATCH"
)

// ParseACLMethod parses a case-insensitive method name.
func ParseACLMethod(name string) (ACLMethod, error) {
	m := ACLMethod(strings.ToUpper(strings.TrimSpace(name)))
	switch m {
	case ACLMethodGet, ACLMethodPost, ACLMethodPut, ACLMethodDelete, ACLMethodPatch:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidACLMethod, name)
	}
}

// ACLRule lists the methods allowed on a path. A nil Methods slice allows
// every method.
type ACLRule struct {
	Methods []ACLMethod `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// ACL maps path patterns to rules. It is signed into user tokens and
// enforced by the API, never locally.
type ACL struct {
	Paths map[string]ACLRule `json:"paths" yaml:"paths"`
}

// NewACL returns an empty ACL.
func NewACL() *ACL {
	return &ACL{Paths: map[string]ACLRule{}}
}

// AddPath adds or replaces the rule for path.
func (a *ACL) AddPath(path string, methods ...ACLMethod) *ACL {
	if a.Paths == nil {
		a.Paths = map[string]ACLRule{}
	}

	var rule ACLRule
	if len(methods) > 0 {
		rule.Methods = append([]ACLMethod(nil), methods...)
	}

	a.Paths[path] = rule

	return a
}

// DefaultACL returns the rules the Client SDKs need to work.
func DefaultACL() *ACL {
	return NewACL().
		AddPath("/*/sessions/**").
		AddPath("/*/users/**").
		AddPath("/*/conversations/**").
		AddPath("/*/image/**").
		AddPath("/*/media/**").
		AddPath("/*/knocking/**").
		AddPath("/*/push/**").
		AddPath("/*/devices/**").
		AddPath("/*/applications/**").
		AddPath("/*/legs/**")
}
