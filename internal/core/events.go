package core

import (
	"fmt"

	"github.com/google/go-github/v68/github"
)

// reviewableActions are the pull request actions that trigger an automated review.
var reviewableActions = map[string]struct{}{
	"opened":      {},
	"synchronize": {},
	"reopened":    {},
}

// ReviewEvent represents a simplified, internal view of a GitHub webhook event.
type ReviewEvent struct {
	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int
	PRTitle  string
	HeadSHA  string
	Sender   string
}

// EventFromPullRequest transforms a raw GitHub PullRequestEvent into the
// application's internal ReviewEvent representation. It acts as an
// anti-corruption layer, ensuring the incoming webhook payload is valid and
// carries a reviewable action before it's handed to a job.
func EventFromPullRequest(event *github.PullRequestEvent) (*ReviewEvent, error) {
	action := event.GetAction()
	if _, ok := reviewableActions[action]; !ok {
		return nil, fmt.Errorf("pull request action %q does not trigger a review", action)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner() == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	pr := event.GetPullRequest()
	if pr == nil || pr.GetNumber() <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", pr.GetNumber())
	}

	return &ReviewEvent{
		RepoOwner:    repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		RepoFullName: repo.GetFullName(),
		PRNumber:     pr.GetNumber(),
		PRTitle:      pr.GetTitle(),
		HeadSHA:      pr.GetHead().GetSHA(),
		Sender:       event.GetSender().GetLogin(),
	}, nil
}
