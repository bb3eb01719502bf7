package constants

import "fmt"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CopySuffix is appended to the title of a duplicated card.
const CopySuffix = " - copy"

// DefaultOrderRetryAttempts bounds how often an append is retried after losing an order race.
const DefaultOrderRetryAttempts = 3

// View paths announced to the presentation layer when cached pages become stale.
const (
	RootPath          = "/"
	OrganizationsPath = "/organizations"
)

// BoardPath is the view path of a single board page.
func BoardPath(boardID string) string {
	return fmt.Sprintf("/board/%s", boardID)
}

// OrganizationMembersPath is the view path of an organization's member page.
func OrganizationMembersPath(orgID string) string {
	return fmt.Sprintf("/organizations/%s/members", orgID)
}
