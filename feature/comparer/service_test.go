package comparer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"inventory-comparer/core/database"
	"inventory-comparer/core/reconcile"
	"inventory-comparer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func mkWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func locationUpload(t *testing.T, name string) Upload {
	t.Helper()
	blob := mkWorkbook(t, [][]any{
		{"SKU", "Barcode", "Product"},
		{"S1", "111222", "Widget"},
	})
	return Upload{Name: name, Reader: bytes.NewReader(blob)}
}

func TestGenerate_WithoutArchive(t *testing.T) {
	svc := NewService(nil, "", zap.NewNop(), nil)

	report, err := svc.Generate(context.Background(), "ray-1",
		reconcile.RuleSetStandard,
		[]Upload{locationUpload(t, "LocA.xlsx")}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Inventory_Comparison_Report.xlsx", report.FileName)
	assert.NotEmpty(t, report.Content)
	assert.Empty(t, report.ArchivedAs)
	assert.Equal(t, 1, report.Result.Summary.Items)
	assert.Equal(t, 1, report.Result.Summary.Good)

	// Uploaded file names become source names, without the extension.
	assert.Equal(t, []string{"LocA"}, report.Result.Config.LocationNames)
}

func TestGenerate_ArchivesReport(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(client, "reports", zap.NewNop(), nil)
	report, err := svc.Generate(context.Background(), "ray-2",
		reconcile.RuleSetStandard,
		[]Upload{locationUpload(t, "LocA.xlsx")}, nil)

	require.NoError(t, err)
	assert.Contains(t, report.ArchivedAs, "ray-2")
	assert.Contains(t, report.ArchivedAs, ".xlsx")
	client.AssertExpectations(t)
}

func TestGenerate_ArchiveFailureDoesNotFailRun(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket unreachable"))

	svc := NewService(client, "reports", zap.NewNop(), nil)
	report, err := svc.Generate(context.Background(), "ray-3",
		reconcile.RuleSetStandard,
		[]Upload{locationUpload(t, "LocA.xlsx")}, nil)

	require.NoError(t, err)
	assert.Empty(t, report.ArchivedAs)
	assert.NotEmpty(t, report.Content)
}

func TestGenerate_RecordsAudit(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	recorder, err := database.NewRecorder(db)
	require.NoError(t, err)

	svc := NewService(nil, "", zap.NewNop(), recorder)
	_, err = svc.Generate(context.Background(), "ray-4",
		reconcile.RuleSetOGF,
		[]Upload{locationUpload(t, "ogf_location.xlsx")}, nil)
	require.NoError(t, err)

	var rows []database.RunAudit
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "ray-4", rows[0].RayID)
	assert.Equal(t, "ogf", rows[0].RuleSet)
	assert.Equal(t, 1, rows[0].LocationCount)
	assert.Equal(t, 1, rows[0].ItemCount)
}

func TestGenerate_InvalidInput(t *testing.T) {
	svc := NewService(nil, "", zap.NewNop(), nil)

	tests := []struct {
		name      string
		locations []Upload
	}{
		{
			name:      "not a workbook",
			locations: []Upload{{Name: "LocA.xlsx", Reader: bytes.NewReader([]byte("garbage"))}},
		},
		{
			name: "duplicate source names",
			locations: []Upload{
				locationUpload(t, "LocA.xlsx"),
				locationUpload(t, "LocA.xlsx"),
			},
		},
		{
			name:      "no locations",
			locations: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), "", reconcile.RuleSetStandard, tt.locations, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestListReports(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "reports/20260101T000000_a.xlsx", Size: 10, LastModified: time.Now().Add(-time.Hour)}
	ch <- minio.ObjectInfo{Key: "reports/20260102T000000_b.xlsx", Size: 20, LastModified: time.Now()}
	close(ch)
	client.On("ListObjects", mock.Anything, "reports", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	svc := NewService(client, "reports", zap.NewNop(), nil)
	reports, err := svc.ListReports(context.Background())

	require.NoError(t, err)
	require.Len(t, reports, 2)
	// Newest first.
	assert.Equal(t, "20260102T000000_b.xlsx", reports[0].Name)
	assert.Equal(t, "20260101T000000_a.xlsx", reports[1].Name)
}

func TestListReports_Disabled(t *testing.T) {
	svc := NewService(nil, "", zap.NewNop(), nil)
	_, err := svc.ListReports(context.Background())
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestGetReport(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "reports", "reports/run.xlsx", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("workbook bytes"))), nil)

	svc := NewService(client, "reports", zap.NewNop(), nil)
	content, err := svc.GetReport(context.Background(), "run.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []byte("workbook bytes"), content)
}

func TestGetReport_RejectsPathTraversal(t *testing.T) {
	svc := NewService(new(mocks.Client), "reports", zap.NewNop(), nil)

	_, err := svc.GetReport(context.Background(), "sub/run.xlsx")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetReport(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
