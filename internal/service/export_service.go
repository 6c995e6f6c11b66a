package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amirhzq/unit-media-api/internal/dto"
	"github.com/amirhzq/unit-media-api/internal/models"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
	"github.com/amirhzq/unit-media-api/pkg/export"
	"github.com/amirhzq/unit-media-api/pkg/jobs"
	"github.com/amirhzq/unit-media-api/pkg/storage"
)

type submissionLister interface {
	VisibleSubmissions(ctx context.Context, actor *models.Session) ([]models.Submission, error)
}

// ExportService renders approval reports of the actor's visible submissions
// and hands out signed download tokens for the resulting files.
type ExportService struct {
	workflow submissionLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	files    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	cleanup  *jobs.Queue
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. The cleanup queue is optional;
// when present a sweep job is enqueued after each render to drop expired
// export files.
func NewExportService(workflow submissionLister, files *storage.LocalStorage, signer *storage.SignedURLSigner, cleanup *jobs.Queue, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		workflow: workflow,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		files:    files,
		signer:   signer,
		cleanup:  cleanup,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RenderSubmissions renders the actor's visible submissions as csv or pdf and
// returns a signed download token.
func (s *ExportService) RenderSubmissions(ctx context.Context, actor *models.Session, format string) (*dto.ExportResult, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	submissions, err := s.workflow.VisibleSubmissions(ctx, actor)
	if err != nil {
		return nil, err
	}

	dataset := submissionDataset(submissions)

	var rendered []byte
	switch format {
	case "csv":
		rendered, err = s.csv.Render(dataset)
	case "pdf":
		rendered, err = s.pdf.Render(dataset, "Submission Approval Report")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	fileName := fmt.Sprintf("submissions_%s_%d.%s", exportID[:8], s.now().Unix(), format)
	if _, err := s.files.Save(fileName, rendered); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, fileName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	s.logger.Info("export rendered",
		zap.String("export_id", exportID),
		zap.String("format", format),
		zap.Int("rows", len(submissions)),
	)

	if s.cleanup != nil {
		if err := s.cleanup.Enqueue(jobs.Job{ID: exportID, Type: "sweep_exports"}); err != nil {
			s.logger.Warn("failed to enqueue export sweep", zap.Error(err))
		}
	}

	return &dto.ExportResult{
		ExportID:      exportID,
		Format:        format,
		FileName:      fileName,
		DownloadToken: token,
		ExpiresAt:     expiresAt,
	}, nil
}

// ResolveDownload validates a download token and returns the on-disk path of
// the export file.
func (s *ExportService) ResolveDownload(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	return s.files.Path(relPath), nil
}

func submissionDataset(submissions []models.Submission) export.Dataset {
	headers := []string{"ID", "Type", "Title", "Submitted By", "Status", "Supporters", "Final Approver", "Submitted At"}
	rows := make([]map[string]string, 0, len(submissions))
	for _, sub := range submissions {
		finalApprover := ""
		if sub.FinalApproval != nil {
			finalApprover = sub.FinalApproval.ApproverName
		}
		rows = append(rows, map[string]string{
			"ID":             sub.ID,
			"Type":           string(sub.Type),
			"Title":          sub.Title,
			"Submitted By":   sub.SubmitterName,
			"Status":         string(sub.Status),
			"Supporters":     strconv.Itoa(len(sub.SupportApprovals)),
			"Final Approver": finalApprover,
			"Submitted At":   sub.Timestamp.Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
