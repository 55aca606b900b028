package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// UsageSummaryRequest requests aggregated usage metrics for one tenant.
// Tenant isolation: OrgID is required.

type UsageSummaryRequest struct {
	OrgID string    `json:"org_id"`
	Range TimeRange `json:"range"`
}

type UsageSummary struct {
	OrgID string `json:"org_id"`

	Users      int `json:"users"`
	Workspaces int `json:"workspaces"`
	Documents  int `json:"documents"`

	// Chat activity inside the requested range.
	ChatsOpened    int `json:"chats_opened"`
	QuestionsAsked int `json:"questions_asked"`
	AnswersGiven   int `json:"answers_given"`

	ActiveUsers int `json:"active_users"`
}

// WorkspaceActivityRequest requests per-workspace chat volume for one tenant.

type WorkspaceActivityRequest struct {
	OrgID string    `json:"org_id"`
	Range TimeRange `json:"range"`
}

type WorkspaceActivity struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Chats       int    `json:"chats"`
	Messages    int    `json:"messages"`
	Documents   int    `json:"documents"`
}
