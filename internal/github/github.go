package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/octocheck/octocheck/internal/checks"
)

// maxAnnotationsPerRequest is the Checks API limit on annotations accepted
// in a single create or update call.
const maxAnnotationsPerRequest = 50

// ChecksAPI is a wrapper around the go-github checks service - which
// provides only the methods we need.
type ChecksAPI interface {
	CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, *github.Response, error)
	UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, *github.Response, error)
}

type checksService struct {
	client *github.Client
}

var _ ChecksAPI = checksService{}

func (s checksService) CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, *github.Response, error) {
	return s.client.Checks.CreateCheckRun(ctx, owner, repo, opts)
}

func (s checksService) UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, *github.Response, error) {
	return s.client.Checks.UpdateCheckRun(ctx, owner, repo, checkRunID, opts)
}

// Client publishes check runs through the GitHub Checks API.
type Client struct {
	checks ChecksAPI
	now    func() time.Time
}

// NewClient returns a Client authenticated with the given bearer token.
// baseURL points the client at a GitHub Enterprise instance; leave it empty
// for github.com.
func NewClient(token, baseURL string) (*Client, error) {
	if token == "" {
		return nil, errors.New("github token is required")
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)

	gh := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("bad API URL %q: %w", baseURL, err)
		}
	}

	return &Client{checks: checksService{client: gh}, now: time.Now}, nil
}

// CheckRun describes one completed check run to publish.
type CheckRun struct {
	Owner       string
	Repo        string
	Name        string
	HeadSHA     string
	DetailsURL  string
	Title       string
	Summary     string
	Text        string
	Conclusion  string
	Annotations []checks.Annotation
}

// Submit publishes run as a single completed check run and returns its HTML
// URL. Annotations beyond the per-request limit are appended with follow-up
// update calls against the created run.
func (c *Client) Submit(ctx context.Context, run CheckRun) (string, error) {
	batches := splitBatches(run.Annotations, maxAnnotationsPerRequest)

	output := &github.CheckRunOutput{
		Title:   github.String(run.Title),
		Summary: github.String(run.Summary),
	}
	if run.Text != "" {
		output.Text = github.String(run.Text)
	}
	if len(batches) > 0 {
		output.Annotations = apiAnnotations(batches[0])
	}

	opts := github.CreateCheckRunOptions{
		Name:        run.Name,
		HeadSHA:     run.HeadSHA,
		Status:      github.String("completed"),
		Conclusion:  github.String(run.Conclusion),
		CompletedAt: &github.Timestamp{Time: c.now().UTC()},
		Output:      output,
	}
	if run.DetailsURL != "" {
		opts.DetailsURL = github.String(run.DetailsURL)
	}

	created, _, err := c.checks.CreateCheckRun(ctx, run.Owner, run.Repo, opts)
	if err != nil {
		return "", wrapAPIError("create check run", err)
	}

	for i := 1; i < len(batches); i++ {
		update := github.UpdateCheckRunOptions{
			Name: run.Name,
			Output: &github.CheckRunOutput{
				Title:       github.String(run.Title),
				Summary:     github.String(run.Summary),
				Annotations: apiAnnotations(batches[i]),
			},
		}
		if _, _, err := c.checks.UpdateCheckRun(ctx, run.Owner, run.Repo, created.GetID(), update); err != nil {
			return "", wrapAPIError(fmt.Sprintf("append annotations to check run %d", created.GetID()), err)
		}
	}

	return created.GetHTMLURL(), nil
}

func splitBatches(anns []checks.Annotation, size int) [][]checks.Annotation {
	var batches [][]checks.Annotation
	for len(anns) > size {
		batches = append(batches, anns[:size])
		anns = anns[size:]
	}
	if len(anns) > 0 {
		batches = append(batches, anns)
	}
	return batches
}

func apiAnnotations(anns []checks.Annotation) []*github.CheckRunAnnotation {
	out := make([]*github.CheckRunAnnotation, 0, len(anns))
	for _, ann := range anns {
		out = append(out, apiAnnotation(ann))
	}
	return out
}

func apiAnnotation(ann checks.Annotation) *github.CheckRunAnnotation {
	api := &github.CheckRunAnnotation{
		Path:            github.String(ann.Path),
		StartLine:       github.Int(ann.StartLine),
		EndLine:         github.Int(ann.EndLine),
		AnnotationLevel: github.String(string(ann.Level)),
		Message:         github.String(ann.Message),
	}
	// The API rejects column ranges on annotations spanning multiple lines.
	if ann.StartLine == ann.EndLine {
		if ann.StartColumn > 0 {
			api.StartColumn = github.Int(ann.StartColumn)
		}
		if ann.EndColumn > 0 {
			api.EndColumn = github.Int(ann.EndColumn)
		}
	}
	if ann.Title != "" {
		api.Title = github.String(ann.Title)
	}
	if ann.RawDetails != "" {
		api.RawDetails = github.String(ann.RawDetails)
	}
	return api
}

// wrapAPIError names the failing call and, for the common auth failures,
// adds a hint about the usual cause.
func wrapAPIError(op string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w (token rejected, verify it and its permissions)", op, err)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w (repository not found or token cannot see it)", op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
