package comparer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"inventory-comparer/core/database"
	"inventory-comparer/core/reconcile"
	"inventory-comparer/core/sheet"
	"inventory-comparer/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrInvalidInput marks failures caused by the caller's uploads or
// parameters, as opposed to internal failures.
var ErrInvalidInput = errors.New("invalid input")

// ErrArchiveDisabled is returned by archive operations when no storage
// client is configured.
var ErrArchiveDisabled = errors.New("report archive is disabled")

// archivePrefix is the object key prefix archived reports live under.
const archivePrefix = "reports/"

// Service runs comparisons and manages the report archive.
type Service struct {
	engine   *reconcile.Engine
	client   storage.Client
	bucket   string
	recorder *database.Recorder
	logger   *zap.Logger
}

// NewService creates a new comparer service. client and recorder may be
// nil; archiving and auditing are then skipped.
func NewService(client storage.Client, bucket string, logger *zap.Logger, recorder *database.Recorder) *Service {
	return &Service{
		engine:   reconcile.NewEngine(logger),
		client:   client,
		bucket:   bucket,
		recorder: recorder,
		logger:   logger,
	}
}

// Generate parses the uploads, runs the engine under the given rule set
// and renders the report workbook. Archive and audit failures are
// logged but never fail a run that produced a report.
func (s *Service) Generate(ctx context.Context, rayID string, ruleSet reconcile.RuleSet, locations, unlisted []Upload) (*Report, error) {
	started := time.Now()

	locationSources, err := parseUploads(locations)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	unlistedSources, err := parseUploads(unlisted)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	result, err := s.engine.Run(ruleSet, locationSources, unlistedSources)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	content, err := sheet.WriteReport(result)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	report := &Report{
		FileName: sheet.ReportFileName,
		Content:  content,
		Result:   result,
	}
	report.ArchivedAs = s.archive(ctx, rayID, content)
	s.audit(rayID, result, len(locations), len(unlisted), time.Since(started))

	return report, nil
}

// ListReports lists archived reports, newest first.
func (s *Service) ListReports(ctx context.Context) ([]ReportInfo, error) {
	if s.client == nil {
		return nil, ErrArchiveDisabled
	}

	var reports []ReportInfo
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    archivePrefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("list archived reports: %w", obj.Err)
		}
		reports = append(reports, ReportInfo{
			Name:         strings.TrimPrefix(obj.Key, archivePrefix),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	return reports, nil
}

// GetReport streams one archived report by its listed name.
func (s *Service) GetReport(ctx context.Context, name string) ([]byte, error) {
	if s.client == nil {
		return nil, ErrArchiveDisabled
	}
	if name == "" || name != path.Base(name) {
		return nil, fmt.Errorf("%w: invalid report name %q", ErrInvalidInput, name)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, archivePrefix+name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch archived report %q: %w", name, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("read archived report %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (s *Service) archive(ctx context.Context, rayID string, content []byte) string {
	if s.client == nil {
		return ""
	}
	if rayID == "" {
		rayID = uuid.NewString()
	}

	objectName := fmt.Sprintf("%s%s_%s.xlsx", archivePrefix,
		time.Now().UTC().Format("20060102T150405"), rayID)

	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		})
	if err != nil {
		s.logger.Warn("Failed to archive report", zap.String("object", objectName), zap.Error(err))
		return ""
	}
	return strings.TrimPrefix(objectName, archivePrefix)
}

func (s *Service) audit(rayID string, result *reconcile.Result, locations, unlisted int, took time.Duration) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(&database.RunAudit{
		RayID:          rayID,
		RuleSet:        string(result.Config.RuleSet),
		LocationCount:  locations,
		UnlistedCount:  unlisted,
		ItemCount:      result.Summary.Items,
		GoodCount:      result.Summary.Good,
		ViolationCount: result.Summary.RuleViolation,
		DataIssueCount: result.Summary.DataIssues,
		CriticalCount:  result.Summary.Critical,
		NoDataCount:    result.Summary.NoData,
		SkippedRows:    result.Summary.SkippedRows,
		DurationMS:     took.Milliseconds(),
	})
	if err != nil {
		s.logger.Warn("Failed to record run audit", zap.Error(err))
	}
}

func parseUploads(uploads []Upload) ([]reconcile.Source, error) {
	sources := make([]reconcile.Source, 0, len(uploads))
	for _, upload := range uploads {
		src, err := sheet.Parse(sourceName(upload.Name), upload.Reader)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// sourceName strips the spreadsheet extension so report headers carry
// the plain sheet name.
func sourceName(fileName string) string {
	name := path.Base(fileName)
	ext := path.Ext(name)
	switch strings.ToLower(ext) {
	case ".xlsx", ".xls":
		return strings.TrimSuffix(name, ext)
	}
	return name
}
