package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/approvly/approvly/internal/agencyctx"
	analyticsdomain "github.com/approvly/approvly/internal/analytics/domain"
	clientdomain "github.com/approvly/approvly/internal/client/domain"
	"github.com/approvly/approvly/internal/clock"
	"github.com/approvly/approvly/internal/config"
	"github.com/approvly/approvly/internal/ingest/domain"
	"github.com/approvly/approvly/internal/ingest/format"
	"github.com/approvly/approvly/internal/ingest/normalize"
	obsmetrics "github.com/approvly/approvly/internal/observability/metrics"
	postdomain "github.com/approvly/approvly/internal/post/domain"
	uploaddomain "github.com/approvly/approvly/internal/upload/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Cfg           config.Config
	ClientSvc     clientdomain.Service
	UploadRepo    uploaddomain.Repository
	AnalyticsRepo analyticsdomain.Repository
	PostRepo      postdomain.Repository
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	opts  normalize.Options

	clients   clientdomain.Service
	uploads   uploaddomain.Repository
	analytics analyticsdomain.Repository
	posts     postdomain.Repository
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ingest.service"),
		genID: p.GenID,
		clock: p.Clock,
		opts: normalize.Options{
			StrictDates:    p.Cfg.Ingest.StrictDates,
			StrictTimezone: p.Cfg.Ingest.StrictTimezone,
		},
		clients:   p.ClientSvc,
		uploads:   p.UploadRepo,
		analytics: p.AnalyticsRepo,
		posts:     p.PostRepo,
		metrics:   p.Metrics,
	}
}

func fatal(label string, err error) error {
	return fmt.Errorf("%s CSV processing failed: %w", label, err)
}

func (s *Service) ImportAnalytics(ctx context.Context, req domain.ImportRequest) (domain.ImportResult, error) {
	client, err := s.resolveClient(ctx, req.ClientID)
	if err != nil {
		return domain.ImportResult{}, err
	}

	records, err := s.readRecords(req.Data, req.Excel)
	if err != nil {
		return domain.ImportResult{}, fatal("analytics", err)
	}
	table, err := format.NewTable(records)
	if err != nil {
		return domain.ImportResult{}, fatal("analytics", err)
	}

	batch, err := s.createBatch(ctx, client.ID, req.Filename)
	if err != nil {
		return domain.ImportResult{}, err
	}

	var result domain.ImportResult
	detected := format.Detect(table)
	switch detected {
	case format.TypefullyTweets:
		norm := normalize.Tweets(table, s.opts, s.clock.Now())
		if len(norm.Records) == 0 {
			return domain.ImportResult{}, fatal("analytics", domain.ErrNoValidRows)
		}
		result = s.persistTweets(ctx, client.ID, batch.ID, norm)
	default:
		detected = format.TwitterLegacy
		norm := normalize.Daily(table, s.opts, s.clock.Now())
		if len(norm.Records) == 0 {
			return domain.ImportResult{}, fatal("analytics", domain.ErrNoValidRows)
		}
		result = s.persistDaily(ctx, client.ID, batch.ID, norm)
	}
	result.Format = string(detected)
	result.UploadID = batch.ID

	if err := s.finalize(ctx, batch.ID, result, ""); err != nil {
		return domain.ImportResult{}, err
	}

	result.Success = true
	s.recordMetrics(result)
	s.log.Info("analytics import complete",
		zap.String("format", result.Format),
		zap.Int("created", result.NewRecords),
		zap.Int("updated", result.UpdatedRecords),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func (s *Service) ImportAgencyAnalytics(ctx context.Context, req domain.AgencyImportRequest) (domain.ImportResult, error) {
	agencyID, ok := agencyctx.AgencyIDFromContext(ctx)
	if !ok || agencyID == 0 {
		return domain.ImportResult{}, domain.ErrInvalidAgency
	}

	records, err := s.readRecords(req.Data, req.Excel)
	if err != nil {
		return domain.ImportResult{}, fatal("agency analytics", err)
	}
	table, err := format.NewTable(records)
	if err != nil {
		return domain.ImportResult{}, fatal("agency analytics", err)
	}

	norm := normalize.AgencyDaily(table, s.opts, s.clock.Now())
	if len(norm.Records) == 0 {
		return domain.ImportResult{}, fatal("agency analytics", domain.ErrNoValidRows)
	}

	batch, err := s.createBatch(ctx, 0, req.Filename)
	if err != nil {
		return domain.ImportResult{}, err
	}

	result := domain.ImportResult{
		Format:   string(format.AgencyAnalytics),
		UploadID: batch.ID,
		Errors:   norm.Errors,
	}
	result.SkippedRecords += len(norm.Errors)

	// Resolve each distinct client name once.
	resolved := make(map[string]*clientdomain.Client)
	clientOf := func(name string) *clientdomain.Client {
		if cached, ok := resolved[name]; ok {
			return cached
		}
		found, err := s.clients.ResolveByName(ctx, name)
		if err != nil {
			resolved[name] = nil
			return nil
		}
		resolved[name] = &found
		return &found
	}

	// Range cleanup runs once per client before that client's upserts.
	type span struct{ min, max time.Time }
	spans := make(map[snowflake.ID]span)
	for j, rec := range norm.Records {
		client := clientOf(rec.ClientName)
		if client == nil {
			continue
		}
		sp, ok := spans[client.ID]
		date := norm.Records[j].Record.Date
		if !ok {
			spans[client.ID] = span{date, date}
			continue
		}
		if date.Before(sp.min) {
			sp.min = date
		}
		if date.After(sp.max) {
			sp.max = date
		}
		spans[client.ID] = sp
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for clientID, sp := range spans {
			if err := s.analytics.ReplaceDailyRange(ctx, tx, clientID, batch.ID, sp.min, sp.max); err != nil {
				return err
			}
		}

		for j := range norm.Records {
			client := clientOf(norm.Records[j].ClientName)
			if client == nil {
				result.Errors = append(result.Errors, rowMsg(norm.Rows[j], "client %q not found", norm.Records[j].ClientName))
				result.SkippedRecords++
				continue
			}

			rec := norm.Records[j].Record
			s.stampDaily(&rec, client.ID, batch.ID)
			outcome, err := s.analytics.UpsertDaily(ctx, tx, &rec)
			if err != nil {
				result.Errors = append(result.Errors, rowMsg(norm.Rows[j], "%v", err))
				result.SkippedRecords++
				continue
			}
			s.count(&result, outcome)
		}
		return nil
	})
	if err != nil {
		return domain.ImportResult{}, fatal("agency analytics", err)
	}

	if err := s.finalize(ctx, batch.ID, result, ""); err != nil {
		return domain.ImportResult{}, err
	}

	result.Success = true
	s.recordMetrics(result)
	return result, nil
}

func (s *Service) ImportFollowers(ctx context.Context, req domain.ImportRequest) (domain.ImportResult, error) {
	client, err := s.resolveClient(ctx, req.ClientID)
	if err != nil {
		return domain.ImportResult{}, err
	}

	records, err := s.readRecords(req.Data, req.Excel)
	if err != nil {
		return domain.ImportResult{}, fatal("followers", err)
	}
	table, err := format.NewTable(records)
	if err != nil {
		return domain.ImportResult{}, fatal("followers", err)
	}
	if err := format.ValidateFollowers(table); err != nil {
		return domain.ImportResult{}, fatal("followers", err)
	}

	norm := normalize.Followers(table, s.opts, s.clock.Now())
	if len(norm.Records) == 0 {
		return domain.ImportResult{}, fatal("followers", domain.ErrNoValidRows)
	}

	batch, err := s.createBatch(ctx, client.ID, req.Filename)
	if err != nil {
		return domain.ImportResult{}, err
	}

	result := domain.ImportResult{
		Format:   string(format.Followers),
		UploadID: batch.ID,
		Errors:   norm.Errors,
	}
	result.SkippedRecords += len(norm.Errors)

	now := s.clock.Now()
	for j := range norm.Records {
		rec := norm.Records[j]
		rec.ID = s.genID.Generate()
		rec.ClientID = client.ID
		rec.UploadID = batch.ID
		rec.CreatedAt = now
		rec.UpdatedAt = now

		outcome, err := s.analytics.UpsertFollowers(ctx, s.db, &rec)
		if err != nil {
			result.Errors = append(result.Errors, rowMsg(norm.Rows[j], "%v", err))
			result.SkippedRecords++
			continue
		}
		s.count(&result, outcome)
	}

	if err := s.finalize(ctx, batch.ID, result, ""); err != nil {
		return domain.ImportResult{}, err
	}

	result.Success = true
	s.recordMetrics(result)
	return result, nil
}

func (s *Service) ImportPosts(ctx context.Context, req domain.ImportRequest) (domain.PostsImportResult, error) {
	client, err := s.resolveClient(ctx, req.ClientID)
	if err != nil {
		return domain.PostsImportResult{}, err
	}

	records, err := s.readRecords(req.Data, req.Excel)
	if err != nil {
		return domain.PostsImportResult{}, fatal("posts", err)
	}
	table, err := format.PostsTable(records)
	if err != nil {
		return domain.PostsImportResult{}, fatal("posts", err)
	}

	norm := normalize.Posts(table, s.opts, s.clock.Now())
	if len(norm.Records) == 0 {
		return domain.PostsImportResult{}, fatal("posts", domain.ErrNoValidRows)
	}

	batch, err := s.createBatch(ctx, client.ID, req.Filename)
	if err != nil {
		return domain.PostsImportResult{}, err
	}

	counts := domain.ImportResult{Errors: norm.Errors}
	now := s.clock.Now()
	for j := range norm.Records {
		rec := norm.Records[j]
		rec.ID = s.genID.Generate()
		rec.ClientID = client.ID
		rec.UploadID = batch.ID
		rec.CreatedAt = now
		rec.UpdatedAt = now

		outcome, err := s.posts.Upsert(ctx, s.db, &rec)
		if err != nil {
			counts.Errors = append(counts.Errors, rowMsg(norm.Rows[j], "%v", err))
			counts.SkippedRecords++
			continue
		}
		switch outcome {
		case postdomain.OutcomeCreated:
			counts.NewRecords++
			counts.ProcessedRecords++
		case postdomain.OutcomeUpdated:
			counts.UpdatedRecords++
			counts.ProcessedRecords++
		default:
			counts.SkippedRecords++
		}
	}
	counts.Format = string(format.PostsWorkflow)
	counts.UploadID = batch.ID

	// A successful posts import overwrites the client's stored timezone
	// with whatever the sheet's time column declared.
	if norm.Timezone != "" {
		if err := s.clients.SetTimezone(ctx, client.ID, norm.Timezone); err != nil {
			s.log.Warn("timezone write-back failed", zap.Error(err))
		}
	}

	if err := s.finalize(ctx, batch.ID, counts, norm.Timezone); err != nil {
		return domain.PostsImportResult{}, err
	}

	counts.Success = true
	s.recordMetrics(counts)
	return domain.PostsImportResult{
		Success:          true,
		ProcessedRecords: counts.ProcessedRecords,
		SavedPosts:       counts.NewRecords + counts.UpdatedRecords,
		Timezone:         norm.Timezone,
		UploadID:         batch.ID,
		Errors:           counts.Errors,
	}, nil
}

func (s *Service) persistTweets(ctx context.Context, clientID, uploadID snowflake.ID, norm normalize.TweetsResult) domain.ImportResult {
	result := domain.ImportResult{Errors: norm.Errors}
	result.SkippedRecords += len(norm.Errors)

	now := s.clock.Now()
	for j := range norm.Records {
		rec := norm.Records[j]
		rec.ID = s.genID.Generate()
		rec.ClientID = clientID
		rec.UploadID = uploadID
		rec.CreatedAt = now
		rec.UpdatedAt = now

		outcome, err := s.analytics.UpsertTweet(ctx, s.db, &rec)
		if err != nil {
			result.Errors = append(result.Errors, rowMsg(norm.Rows[j], "%v", err))
			result.SkippedRecords++
			continue
		}
		s.count(&result, outcome)
	}
	return result
}

func (s *Service) persistDaily(ctx context.Context, clientID, uploadID snowflake.ID, norm normalize.DailyResult) domain.ImportResult {
	result := domain.ImportResult{Errors: norm.Errors}
	result.SkippedRecords += len(norm.Errors)

	minDate, maxDate := norm.Records[0].Date, norm.Records[0].Date
	for _, rec := range norm.Records[1:] {
		if rec.Date.Before(minDate) {
			minDate = rec.Date
		}
		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}

	// The range cleanup and the per-row writes share one transaction so a
	// concurrent import for the same client cannot observe the window
	// between delete and insert.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.analytics.ReplaceDailyRange(ctx, tx, clientID, uploadID, minDate, maxDate); err != nil {
			return err
		}

		for j := range norm.Records {
			rec := norm.Records[j]
			s.stampDaily(&rec, clientID, uploadID)
			outcome, err := s.analytics.UpsertDaily(ctx, tx, &rec)
			if err != nil {
				result.Errors = append(result.Errors, rowMsg(norm.Rows[j], "%v", err))
				result.SkippedRecords++
				continue
			}
			s.count(&result, outcome)
		}
		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.SkippedRecords += len(norm.Records) - result.ProcessedRecords
	}
	return result
}

func (s *Service) resolveClient(ctx context.Context, clientID snowflake.ID) (clientdomain.Client, error) {
	if _, ok := agencyctx.AgencyIDFromContext(ctx); !ok {
		return clientdomain.Client{}, domain.ErrInvalidAgency
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, clientdomain.ErrNotFound) {
			return clientdomain.Client{}, domain.ErrInvalidClient
		}
		return clientdomain.Client{}, err
	}
	return client, nil
}

func (s *Service) createBatch(ctx context.Context, clientID snowflake.ID, filename string) (*uploaddomain.UploadBatch, error) {
	agencyID, ok := agencyctx.AgencyIDFromContext(ctx)
	if !ok || agencyID == 0 {
		return nil, domain.ErrInvalidAgency
	}

	now := s.clock.Now()
	batch := &uploaddomain.UploadBatch{
		ID:        s.genID.Generate(),
		AgencyID:  agencyID,
		ClientID:  clientID,
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.uploads.Insert(ctx, s.db, batch); err != nil {
		return nil, fmt.Errorf("create upload batch: %w", err)
	}
	return batch, nil
}

func (s *Service) finalize(ctx context.Context, batchID snowflake.ID, result domain.ImportResult, tz string) error {
	err := s.uploads.Finalize(ctx, s.db, batchID, uploaddomain.FinalizeParams{
		Format:      result.Format,
		CreatedRows: result.NewRecords,
		UpdatedRows: result.UpdatedRecords,
		SkippedRows: result.SkippedRecords,
		Timezone:    tz,
		RowErrors:   result.Errors,
	})
	if err != nil {
		return fmt.Errorf("finalize upload batch: %w", err)
	}
	return nil
}

func (s *Service) stampDaily(rec *analyticsdomain.DailyAnalytics, clientID, uploadID snowflake.ID) {
	now := s.clock.Now()
	rec.ID = s.genID.Generate()
	rec.ClientID = clientID
	rec.UploadID = uploadID
	rec.CreatedAt = now
	rec.UpdatedAt = now
}

func (s *Service) count(result *domain.ImportResult, outcome analyticsdomain.Outcome) {
	switch outcome {
	case analyticsdomain.OutcomeCreated:
		result.NewRecords++
		result.ProcessedRecords++
	case analyticsdomain.OutcomeUpdated:
		result.UpdatedRecords++
		result.ProcessedRecords++
	default:
		result.SkippedRecords++
	}
}

func (s *Service) recordMetrics(result domain.ImportResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.ImportsTotal.WithLabelValues(result.Format, "success").Inc()
	s.metrics.RowsTotal.WithLabelValues(result.Format, "created").Add(float64(result.NewRecords))
	s.metrics.RowsTotal.WithLabelValues(result.Format, "updated").Add(float64(result.UpdatedRecords))
	s.metrics.RowsTotal.WithLabelValues(result.Format, "skipped").Add(float64(result.SkippedRecords))
	s.metrics.RowErrors.WithLabelValues(result.Format).Add(float64(len(result.Errors)))
}

func (s *Service) readRecords(data []byte, excel bool) ([][]string, error) {
	if excel {
		return format.ReadXLSX(data)
	}
	return format.ReadCSV(data)
}

// rowMsg formats a persistence-stage row error with the same 1-based file
// indexing the normalizers use.
func rowMsg(dataIndex int, msg string, args ...any) string {
	return fmt.Sprintf("row %d: %s", dataIndex+2, fmt.Sprintf(msg, args...))
}
