package gitprovider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const githubName = "github"

// pullURLPattern matches https?://<host>/<owner>/<repo>/pull/<number>.
// The /pull/ path segment is specific to GitHub-style hosts, which keeps
// the pattern disjoint from other platforms.
var pullURLPattern = regexp.MustCompile(`^https?://[^/\s]+/([^/\s]+)/([^/\s]+)/pull/(\d+)$`)

// GitHub implements Provider for GitHub and GitHub Enterprise hosts.
type GitHub struct {
	client *github.Client
}

// NewGitHub builds a GitHub provider. The token is required; apiBase
// overrides the public API endpoint for Enterprise installs and tests.
func NewGitHub(token, apiBase string, timeout time.Duration) (*GitHub, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("gitprovider: github token is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = timeout

	client := github.NewClient(httpClient)
	if apiBase != "" {
		base, err := url.Parse(apiBase)
		if err != nil {
			return nil, fmt.Errorf("gitprovider: parse github api_base %q: %w", apiBase, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		client.BaseURL = base
	}
	return &GitHub{client: client}, nil
}

// Name implements Provider.
func (g *GitHub) Name() string { return githubName }

// Supports implements Provider. It is a pure full-match against the pull
// request URL shape.
func (g *GitHub) Supports(u string) bool {
	return pullURLPattern.MatchString(strings.TrimSpace(u))
}

// ParsePullURL extracts owner, repo and PR number from a supported URL.
func ParsePullURL(u string) (owner, repo string, number int, ok bool) {
	m := pullURLPattern.FindStringSubmatch(strings.TrimSpace(u))
	if m == nil {
		return "", "", 0, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return "", "", 0, false
	}
	return m[1], m[2], n, true
}

// CheckIfMerged implements Provider. It calls the pull-request detail
// endpoint and returns the merged flag from the response body.
func (g *GitHub) CheckIfMerged(ctx context.Context, u string) (bool, error) {
	owner, repo, number, ok := ParsePullURL(u)
	if !ok {
		return false, &ProviderError{
			Code:     CodeUnexpectedError,
			Provider: githubName,
			Message:  fmt.Sprintf("url %q is not a pull request url", u),
		}
	}

	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			return false, &ProviderError{
				Code:       CodeRateLimitExceeded,
				Provider:   githubName,
				Message:    fmt.Sprintf("rate limit exceeded for %s/%s#%d", owner, repo, number),
				StatusCode: 403,
			}
		}

		var respErr *github.ErrorResponse
		if errors.As(err, &respErr) && respErr.Response != nil {
			code := respErr.Response.StatusCode
			switch {
			case code == 404:
				return false, &ProviderError{
					Code:       CodePRNotFound,
					Provider:   githubName,
					Message:    fmt.Sprintf("pull request %s/%s#%d not found", owner, repo, number),
					StatusCode: 404,
				}
			case code == 403 && respErr.Response.Header.Get("X-RateLimit-Remaining") == "0":
				return false, &ProviderError{
					Code:       CodeRateLimitExceeded,
					Provider:   githubName,
					Message:    fmt.Sprintf("rate limit exceeded for %s/%s#%d", owner, repo, number),
					StatusCode: 403,
				}
			default:
				return false, &ProviderError{
					Code:       CodeHTTPError,
					Provider:   githubName,
					Message:    respErr.Message,
					StatusCode: code,
				}
			}
		}

		return false, &ProviderError{
			Code:     CodeUnexpectedError,
			Provider: githubName,
			Message:  err.Error(),
		}
	}

	return pr.GetMerged(), nil
}
