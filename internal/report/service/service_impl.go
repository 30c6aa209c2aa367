package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/approvly/approvly/internal/agencyctx"
	analyticsdomain "github.com/approvly/approvly/internal/analytics/domain"
	clientdomain "github.com/approvly/approvly/internal/client/domain"
	"github.com/approvly/approvly/internal/ingest/format"
	postdomain "github.com/approvly/approvly/internal/post/domain"
	"github.com/approvly/approvly/internal/report/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var postsHeader = []any{
	"Date", "Content", "Format", "Tweet Text", "Typefully Link", "Status", "Feedback",
}

var analyticsHeader = []any{
	"Date", "Impressions", "Engagements", "Likes", "Retweets", "Replies",
	"Profile Clicks", "URL Clicks", "Follows", "Engagement Rate", "Click Through Rate",
}

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	ClientSvc     clientdomain.Service
	PostRepo      postdomain.Repository
	AnalyticsRepo analyticsdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clients   clientdomain.Service
	posts     postdomain.Repository
	analytics analyticsdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("report.service"),
		clients:   p.ClientSvc,
		posts:     p.PostRepo,
		analytics: p.AnalyticsRepo,
	}
}

func (s *Service) PostsReport(ctx context.Context, clientID snowflake.ID) ([]byte, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByClient(ctx, s.db, client.ID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if len(posts) == 0 {
		return nil, domain.ErrNoPosts
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Posts Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := writePostRows(f, sheet, posts); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) ClientWorkbook(ctx context.Context, clientID snowflake.ID) ([]byte, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByClient(ctx, s.db, client.ID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	daily, err := s.analytics.ListDailyByClient(ctx, s.db, client.ID)
	if err != nil {
		return nil, fmt.Errorf("list analytics: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", "Posts"); err != nil {
		return nil, err
	}
	if err := writePostRows(f, "Posts", posts); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Analytics"); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow("Analytics", "A1", &analyticsHeader); err != nil {
		return nil, err
	}
	for i, rec := range daily {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			rec.Date.Format("2006-01-02"),
			rec.Impressions,
			rec.Engagements,
			rec.Likes,
			rec.Retweets,
			rec.Replies,
			rec.ProfileClicks,
			rec.URLClicks,
			rec.Follows,
			formatRate(rec.EngagementRate),
			formatRate(rec.ClickThroughRate),
		}
		if err := f.SetSheetRow("Analytics", cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) ApplyWorkbook(ctx context.Context, data []byte) (domain.ApplyResult, error) {
	if _, ok := agencyctx.AgencyIDFromContext(ctx); !ok {
		return domain.ApplyResult{}, domain.ErrInvalidAgency
	}

	records, err := format.ReadXLSX(data)
	if err != nil {
		return domain.ApplyResult{}, fmt.Errorf("posts workbook processing failed: %w", err)
	}
	table, err := format.NewTable(records)
	if err != nil {
		return domain.ApplyResult{}, fmt.Errorf("posts workbook processing failed: %w", err)
	}

	urlKey, ok := table.HeaderMatching(func(h string) bool {
		return strings.Contains(h, "typefully")
	})
	if !ok {
		return domain.ApplyResult{}, fmt.Errorf("posts workbook processing failed: %w", errors.New("missing typefully column"))
	}
	clientKey, _ := table.HeaderMatching(func(h string) bool {
		return strings.Contains(h, "client")
	})

	var result domain.ApplyResult

	// Each distinct client name resolves once.
	resolved := make(map[string]*clientdomain.Client)
	for i := range table.Rows {
		row := table.Row(i)

		url := strings.TrimSpace(row[urlKey])
		if url == "" {
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			url = "https://" + url
		}

		name := strings.TrimSpace(row[clientKey])
		client, cached := resolved[name]
		if !cached {
			found, err := s.clients.ResolveByName(ctx, name)
			if err != nil {
				resolved[name] = nil
			} else {
				client = &found
				resolved[name] = client
			}
		}
		if client = resolved[name]; client == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: client %q not found", i+2, name))
			result.SkippedRows++
			continue
		}

		post, err := s.posts.FindByURL(ctx, s.db, client.ID, url)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			result.SkippedRows++
			continue
		}
		if post == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: post %s not found", i+2, url))
			result.SkippedRows++
			continue
		}

		status := parseStatus(row["status"])
		if status == "" {
			status = post.Status
		}
		if err := s.posts.UpdateReview(ctx, s.db, post.ID, status, row["feedback"]); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			result.SkippedRows++
			continue
		}
		result.UpdatedPosts++
	}

	if result.UpdatedPosts == 0 && len(result.Errors) > 0 {
		s.log.Warn("workbook apply updated nothing", zap.Int("errors", len(result.Errors)))
	}
	result.Success = true
	return result, nil
}

func writePostRows(f *excelize.File, sheet string, posts []*postdomain.PostDraft) error {
	if err := f.SetSheetRow(sheet, "A1", &postsHeader); err != nil {
		return err
	}
	for i, post := range posts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			formatDate(post.ScheduledDate),
			post.Content,
			post.Format,
			post.TweetText,
			post.TypefullyURL,
			string(post.Status),
			post.Feedback,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// parseStatus accepts both the stored enum spelling and the human labels a
// reviewed sheet tends to carry.
func parseStatus(raw string) postdomain.Status {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")) {
	case "PENDING":
		return postdomain.StatusPending
	case "APPROVED":
		return postdomain.StatusApproved
	case "REJECTED":
		return postdomain.StatusRejected
	case "SUGGEST_CHANGES", "NEEDS_REVISION":
		return postdomain.StatusSuggestChanges
	case "PUBLISHED", "POSTED":
		return postdomain.StatusPublished
	}
	return ""
}
