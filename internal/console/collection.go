package console

import (
	"fmt"

	"licensedesk/entity"
)

// Collection names one backend list the console mirrors.
type Collection string

const (
	Users      Collection = "users"
	Licenses   Collection = "licenses"
	Tickets    Collection = "tickets"
	Activities Collection = "activities"
	Executions Collection = "executions"
	Accounts   Collection = "accounts"
)

var allCollections = []Collection{Users, Licenses, Tickets, Activities, Executions, Accounts}

func AllCollections() []Collection {
	result := make([]Collection, len(allCollections))
	copy(result, allCollections)
	return result
}

// ParseCollections maps config names to collections; an empty list means all of them.
func ParseCollections(names []string) ([]Collection, error) {
	if len(names) == 0 {
		return AllCollections(), nil
	}
	seen := make(map[Collection]bool, len(names))
	result := make([]Collection, 0, len(names))
	for _, name := range names {
		c := Collection(name)
		if !c.valid() {
			return nil, fmt.Errorf("unknown collection: %q", name)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		result = append(result, c)
	}
	return result, nil
}

func (c Collection) valid() bool {
	for _, v := range allCollections {
		if v == c {
			return true
		}
	}
	return false
}

func (c Collection) path() string {
	if c == Executions {
		return "/script-executions"
	}
	return "/" + string(c)
}

func logCollection(kind entity.LogKind) Collection {
	if kind == entity.LogExecutions {
		return Executions
	}
	return Activities
}
