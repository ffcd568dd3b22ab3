// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching repositories from GitHub.
type Fetcher interface {
	// CountRepositories returns the number of repositories the organization owns.
	CountRepositories(ctx context.Context, org string) (int, error)
	// FetchRepositories calls visit once per repository, page by page.
	// An error returned by visit stops the listing and is returned as is.
	FetchRepositories(ctx context.Context, org string, visit func(domain.Repository) error) error
}

// Source selects which GitHub API lists repositories.
type Source string

const (
	SourceREST    Source = "rest"
	SourceGraphQL Source = "graphql"
)

// UpdateField selects which timestamp counts as the last update of a repository.
type UpdateField string

const (
	UpdateFieldPushed  UpdateField = "pushed"
	UpdateFieldUpdated UpdateField = "updated"
)

// Options configures NewGitHubGateway.
type Options struct {
	Source      Source
	UpdateField UpdateField
	// APIURL and GraphQLURL point the clients at a GitHub Enterprise server.
	APIURL     string
	GraphQLURL string
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	source        Source
	updateField   UpdateField
	logger        *zap.Logger
}

// orgRepositoryNode is one repository in a GraphQL page.
type orgRepositoryNode struct {
	Name      string
	CreatedAt githubv4.DateTime
	PushedAt  *githubv4.DateTime
	UpdatedAt githubv4.DateTime
}

// orgRepositoriesQuery pages through an organization's repositories, oldest first.
type orgRepositoriesQuery struct {
	Organization struct {
		Repositories struct {
			TotalCount int
			PageInfo   struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []orgRepositoryNode
		} `graphql:"repositories(first: 100, after: $cursor, orderBy: {field: CREATED_AT, direction: ASC})"`
	} `graphql:"organization(login: $login)"`
}

// orgRepositoryCountQuery only asks for the total.
type orgRepositoryCountQuery struct {
	Organization struct {
		Repositories struct {
			TotalCount int
		}
	} `graphql:"organization(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, opts Options, logger *zap.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if opts.APIURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set enterprise API URL: %w", err)
		}
	}

	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return newGateway(restClient, graphqlClient, opts, logger), nil
}

func newGateway(restClient *github.Client, graphqlClient *githubv4.Client, opts Options, logger *zap.Logger) *GitHubGateway {
	source := opts.Source
	if source == "" {
		source = SourceREST
	}
	updateField := opts.UpdateField
	if updateField == "" {
		updateField = UpdateFieldPushed
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		source:        source,
		updateField:   updateField,
		logger:        logger,
	}
}

// CountRepositories resolves the organization and returns its repository count.
func (g *GitHubGateway) CountRepositories(ctx context.Context, org string) (int, error) {
	if g.source == SourceGraphQL {
		var q orgRepositoryCountQuery
		variables := map[string]interface{}{"login": githubv4.String(org)}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return 0, fmt.Errorf("failed to execute GraphQL query for repository count: %w", err)
		}
		return q.Organization.Repositories.TotalCount, nil
	}

	organization, resp, err := g.restClient.Organizations.Get(ctx, org)
	if err != nil {
		return 0, fmt.Errorf("failed to get organization %s with REST API: %w", org, err)
	}
	logRateLimit(g.logger, resp, "orgs/"+org, 0, 1)
	return int(organization.GetPublicRepos()) + int(organization.GetTotalPrivateRepos()), nil
}

// FetchRepositories lists every repository of the organization.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, org string, visit func(domain.Repository) error) error {
	if g.source == SourceGraphQL {
		return g.fetchRepositoriesGraphQL(ctx, org, visit)
	}
	return g.fetchRepositoriesREST(ctx, org, visit)
}

func (g *GitHubGateway) fetchRepositoriesREST(ctx context.Context, org string, visit func(domain.Repository) error) error {
	g.logger.Debug("Fetching repositories using REST API", zap.String("org", org))
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		repos, resp, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return fmt.Errorf("failed to list repositories with REST API (page %d): %w", opts.Page, err)
		}
		logRateLimit(g.logger, resp, "orgs/"+org+"/repos", opts.Page, len(repos))

		for _, repo := range repos {
			if err := visit(g.mapRepository(repo)); err != nil {
				return err
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("Fetching next page of repositories...", zap.Int("page", opts.Page))
	}
	g.logger.Debug("Completed fetching repositories.")
	return nil
}

func (g *GitHubGateway) fetchRepositoriesGraphQL(ctx context.Context, org string, visit func(domain.Repository) error) error {
	g.logger.Debug("Fetching repositories using GraphQL API", zap.String("org", org))
	variables := map[string]interface{}{
		"login":  githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	for {
		var q orgRepositoriesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
		}
		page := q.Organization.Repositories
		for _, node := range page.Nodes {
			if err := visit(g.mapRepositoryNode(node)); err != nil {
				return err
			}
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(page.PageInfo.EndCursor)
		g.logger.Debug("Fetching next page of repositories...")
	}
	g.logger.Debug("Completed fetching repositories.")
	return nil
}

// mapRepository converts a go-github Repository, using GetXxx helpers to avoid nil pointers.
func (g *GitHubGateway) mapRepository(repo *github.Repository) domain.Repository {
	created := repo.GetCreatedAt().Time
	updated := repo.GetPushedAt().Time
	if g.updateField == UpdateFieldUpdated {
		updated = repo.GetUpdatedAt().Time
	}
	if updated.IsZero() {
		updated = created
	}
	return domain.Repository{Name: repo.GetName(), CreatedAt: created, UpdatedAt: updated}
}

func (g *GitHubGateway) mapRepositoryNode(node orgRepositoryNode) domain.Repository {
	created := node.CreatedAt.Time
	var updated time.Time
	if g.updateField == UpdateFieldUpdated {
		updated = node.UpdatedAt.Time
	} else if node.PushedAt != nil {
		updated = node.PushedAt.Time
	}
	if updated.IsZero() {
		updated = created
	}
	return domain.Repository{Name: node.Name, CreatedAt: created, UpdatedAt: updated}
}

// logRateLimit logs the GitHub API rate limit status after each REST call.
func logRateLimit(logger *zap.Logger, resp *github.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}
	logger.Debug("github api call",
		zap.String("endpoint", endpoint),
		zap.Int("page", page),
		zap.Int("count", count),
		zap.Int("rate_remaining", resp.Rate.Remaining),
		zap.Int("rate_limit", resp.Rate.Limit),
	)
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		logger.Warn("github rate limit low",
			zap.Int("remaining", resp.Rate.Remaining),
			zap.Duration("reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second)),
		)
	}
}
