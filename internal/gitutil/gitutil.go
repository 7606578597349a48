package gitutil

import (
	"fmt"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// HeadSHA returns the commit SHA at HEAD of the git repository
// containing dir, searching parent directories for the .git directory
// the way the git CLI does.
func HeadSHA(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

var commitShaRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsCommitSHA reports whether s is a full 40-character hex commit SHA.
func IsCommitSHA(s string) bool {
	return commitShaRe.MatchString(strings.ToLower(s))
}
