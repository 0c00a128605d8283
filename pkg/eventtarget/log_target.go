package eventtarget

import "fmt"

type logTargetKind int

const (
	targetProject logTargetKind = iota + 1
	targetOrganization
	targetFolder
	targetBillingAccount
)

// LogTarget identifies the scope a log stream is addressed under. It mirrors
// the parent forms Cloud Logging accepts: projects, organizations, folders
// and billing accounts.
type LogTarget struct {
	kind logTargetKind
	id   string
}

func newLogTarget(kind logTargetKind, what, id string) (*LogTarget, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, what)
	}
	return &LogTarget{kind: kind, id: id}, nil
}

// LogTargetForProject returns a target scoped to a project.
func LogTargetForProject(projectID string) (*LogTarget, error) {
	return newLogTarget(targetProject, "project id", projectID)
}

// LogTargetForOrganization returns a target scoped to an organization.
func LogTargetForOrganization(organizationID string) (*LogTarget, error) {
	return newLogTarget(targetOrganization, "organization id", organizationID)
}

// LogTargetForFolder returns a target scoped to a folder.
func LogTargetForFolder(folderID string) (*LogTarget, error) {
	return newLogTarget(targetFolder, "folder id", folderID)
}

// LogTargetForBillingAccount returns a target scoped to a billing account.
func LogTargetForBillingAccount(accountID string) (*LogTarget, error) {
	return newLogTarget(targetBillingAccount, "billing account id", accountID)
}

// Parent renders the scope in the parent form Cloud Logging expects, e.g.
// "projects/my-project".
func (t *LogTarget) Parent() string {
	switch t.kind {
	case targetOrganization:
		return "organizations/" + t.id
	case targetFolder:
		return "folders/" + t.id
	case targetBillingAccount:
		return "billingAccounts/" + t.id
	default:
		return "projects/" + t.id
	}
}

func (t *LogTarget) String() string { return t.Parent() }
