package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/mizuasagi/folio/model"
)

// GitHubClient は GitHub GraphQL API (v4) からユーザーの
// コントリビューションカレンダーを取得します。
type GitHubClient struct {
	client *githubv4.Client
	login  string
}

// NewGitHubClient は指定されたトークンとユーザー名でGitHubClientを生成します。
func NewGitHubClient(token, login string) *GitHubClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 10 * time.Second
	return &GitHubClient{
		client: githubv4.NewClient(httpClient),
		login:  login,
	}
}

// FetchCalendar は [from, to] の期間のコントリビューションカレンダーを
// 1回のクエリで取得し、日付→カウントのマッピングに平坦化して返します。
func (c *GitHubClient) FetchCalendar(ctx context.Context, from, to time.Time) (model.DayCounts, error) {
	var query struct {
		User struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []struct {
						ContributionDays []struct {
							Date              string
							ContributionCount int
						}
					}
				}
			} `graphql:"contributionsCollection(from: $from, to: $to)"`
		} `graphql:"user(login: $login)"`
	}

	variables := map[string]interface{}{
		"login": githubv4.String(c.login),
		"from":  githubv4.DateTime{Time: from},
		"to":    githubv4.DateTime{Time: to},
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to query contribution calendar: %w", err)
	}

	counts := make(model.DayCounts)
	for _, week := range query.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			// 0の日はマッピングに持たない（負値が報告された場合も切り捨てる）
			if day.ContributionCount <= 0 {
				continue
			}
			// 同一日付が重複して報告された場合は合算する
			counts[day.Date] += day.ContributionCount
		}
	}
	return counts, nil
}
