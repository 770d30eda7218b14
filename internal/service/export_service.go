package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/config"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
	"github.com/ostazy-app/ostazy-api/pkg/export"
	"github.com/ostazy-app/ostazy-api/pkg/jobs"
	"github.com/ostazy-app/ostazy-api/pkg/storage"
)

// Export formats accepted by both the sync and async paths.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Async export job statuses.
const (
	ExportStatusQueued    = "queued"
	ExportStatusRunning   = "running"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

// ExportJob tracks one async export request through the queue.
type ExportJob struct {
	ID          string                `json:"id"`
	Status      string                `json:"status"`
	Format      string                `json:"format"`
	Criteria    models.FilterCriteria `json:"-"`
	FilePath    string                `json:"-"`
	RequestedBy string                `json:"-"`
	Error       string                `json:"error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// ExportStatus is the job status response, including a signed download
// token once the file is ready.
type ExportStatus struct {
	ExportJob
	DownloadToken string     `json:"download_token,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// DiscoveryLister is the slice of the discovery service exports need.
type DiscoveryLister interface {
	FilterAll(ctx context.Context, criteria models.FilterCriteria, maxRows int) ([]models.RankedTutor, error)
}

// ExportService renders tutor listings to CSV or PDF, synchronously for
// small responses and through a worker queue for stored downloads.
type ExportService struct {
	lister  DiscoveryLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	store   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger

	enabled bool
	maxRows int

	mu      sync.RWMutex
	jobsLog map[string]*ExportJob
}

// NewExportService constructs an ExportService and its render queue. The
// queue is not started; call Start once the process context exists.
func NewExportService(
	lister DiscoveryLister,
	store *storage.LocalStorage,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg *config.Config,
) *ExportService {
	s := &ExportService{
		lister:  lister,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		store:   store,
		signer:  storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Exports.DownloadTTL),
		metrics: metrics,
		logger:  logger,
		enabled: cfg.Exports.Enabled,
		maxRows: cfg.Exports.MaxRows,
		jobsLog: make(map[string]*ExportJob),
	}

	s.queue = jobs.NewQueue("exports", s.handleJob, jobs.QueueConfig{
		Workers: cfg.Exports.Workers,
		Logger:  logger,
	})

	return s
}

// Start spins up the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Render produces an export synchronously. Returns the payload, its
// content type and a suggested filename.
func (s *ExportService) Render(ctx context.Context, criteria models.FilterCriteria, format string) ([]byte, string, string, error) {
	if !s.enabled {
		return nil, "", "", errors.Clone(errors.ErrForbidden, "exports are disabled")
	}

	tutors, err := s.lister.FilterAll(ctx, criteria, s.maxRows)
	if err != nil {
		return nil, "", "", err
	}

	dataset := listingDataset(tutors)
	stamp := time.Now().UTC().Format("20060102-150405")

	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "render csv")
		}
		return payload, "text/csv", fmt.Sprintf("tutors-%s.csv", stamp), nil
	case FormatPDF:
		payload, err := s.pdf.Render(dataset, "Tutor Listing")
		if err != nil {
			return nil, "", "", errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "render pdf")
		}
		return payload, "application/pdf", fmt.Sprintf("tutors-%s.pdf", stamp), nil
	default:
		return nil, "", "", errors.Clone(errors.ErrValidation, "format must be csv or pdf")
	}
}

// Enqueue schedules an async export and returns its job record.
func (s *ExportService) Enqueue(criteria models.FilterCriteria, format, requestedBy string) (*ExportJob, error) {
	if !s.enabled {
		return nil, errors.Clone(errors.ErrForbidden, "exports are disabled")
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, errors.Clone(errors.ErrValidation, "format must be csv or pdf")
	}

	job := &ExportJob{
		ID:          uuid.NewString(),
		Status:      ExportStatusQueued,
		Format:      format,
		Criteria:    criteria,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobsLog[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "export"}); err != nil {
		s.failJob(job.ID, err)
		return nil, errors.Wrap(err, errors.ErrServiceUnavailable.Code,
			errors.ErrServiceUnavailable.Status, "export queue unavailable")
	}

	return s.snapshot(job.ID), nil
}

// Status returns the job record plus a signed download token when the
// file is ready. Requesters only see their own jobs.
func (s *ExportService) Status(jobID, requestedBy string) (*ExportStatus, error) {
	job := s.snapshot(jobID)
	if job == nil {
		return nil, errors.Clone(errors.ErrNotFound, "export job not found")
	}
	if job.RequestedBy != requestedBy {
		return nil, errors.Clone(errors.ErrForbidden, "export job belongs to another account")
	}

	status := &ExportStatus{ExportJob: *job}
	if job.Status == ExportStatusCompleted && job.FilePath != "" {
		token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "sign download token")
		}
		status.DownloadToken = token
		status.ExpiresAt = &expiresAt
	}
	return status, nil
}

// Open validates a download token and returns the stored file handle
// with its content type and filename.
func (s *ExportService) Open(token string) (*os.File, string, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", "", errors.Wrap(err, errors.ErrUnauthorized.Code,
			errors.ErrUnauthorized.Status, "invalid download token")
	}

	job := s.snapshot(jobID)
	if job == nil || job.Status != ExportStatusCompleted || job.FilePath != relPath {
		return nil, "", "", errors.Clone(errors.ErrNotFound, "export no longer available")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", "", errors.Wrap(err, errors.ErrNotFound.Code,
			errors.ErrNotFound.Status, "export file missing")
	}

	contentType := "text/csv"
	if strings.HasSuffix(relPath, ".pdf") {
		contentType = "application/pdf"
	}
	return file, contentType, relPath, nil
}

func (s *ExportService) handleJob(ctx context.Context, qjob jobs.Job) error {
	job := s.snapshot(qjob.ID)
	if job == nil {
		return fmt.Errorf("export job %s vanished", qjob.ID)
	}

	s.setStatus(job.ID, ExportStatusRunning)

	payload, _, filename, err := s.render(ctx, job)
	if err != nil {
		s.failJob(job.ID, err)
		s.metrics.ObserveExportJob(ExportStatusFailed)
		// Render failures are not transient; swallow so the queue does
		// not retry a deterministic error.
		s.logger.Error("export job failed", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	relPath := fmt.Sprintf("%s/%s", job.ID, filename)
	if _, err := s.store.Save(relPath, payload); err != nil {
		s.failJob(job.ID, err)
		s.metrics.ObserveExportJob(ExportStatusFailed)
		return err
	}

	s.completeJob(job.ID, relPath)
	s.metrics.ObserveExportJob(ExportStatusCompleted)
	return nil
}

func (s *ExportService) render(ctx context.Context, job *ExportJob) ([]byte, string, string, error) {
	tutors, err := s.lister.FilterAll(ctx, job.Criteria, s.maxRows)
	if err != nil {
		return nil, "", "", err
	}

	dataset := listingDataset(tutors)
	stamp := job.CreatedAt.Format("20060102-150405")

	if job.Format == FormatPDF {
		payload, err := s.pdf.Render(dataset, "Tutor Listing")
		return payload, "application/pdf", fmt.Sprintf("tutors-%s.pdf", stamp), err
	}
	payload, err := s.csv.Render(dataset)
	return payload, "text/csv", fmt.Sprintf("tutors-%s.csv", stamp), err
}

func (s *ExportService) snapshot(jobID string) *ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobsLog[jobID]
	if !ok {
		return nil
	}
	clone := *job
	return &clone
}

func (s *ExportService) setStatus(jobID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsLog[jobID]; ok {
		job.Status = status
	}
}

func (s *ExportService) failJob(jobID string, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsLog[jobID]; ok {
		job.Status = ExportStatusFailed
		job.Error = err.Error()
		job.CompletedAt = &now
	}
}

func (s *ExportService) completeJob(jobID, relPath string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsLog[jobID]; ok {
		job.Status = ExportStatusCompleted
		job.FilePath = relPath
		job.CompletedAt = &now
	}
}

var listingHeaders = []string{
	"Name", "Governate", "District", "Experience (years)",
	"Rating", "Top Rated", "Subjects", "Lowest Price",
}

func listingDataset(tutors []models.RankedTutor) export.Dataset {
	rows := make([]map[string]string, 0, len(tutors))
	for _, tutor := range tutors {
		rows = append(rows, map[string]string{
			"Name":               tutor.FullName,
			"Governate":          tutor.Governate,
			"District":           tutor.District,
			"Experience (years)": strconv.Itoa(tutor.YearsExperience),
			"Rating":             ratingCell(tutor.Rating),
			"Top Rated":          strconv.FormatBool(tutor.TopRated),
			"Subjects":           subjectsCell(tutor.Offerings),
			"Lowest Price":       priceCell(tutor.Offerings),
		})
	}
	return export.Dataset{Headers: listingHeaders, Rows: rows}
}

func ratingCell(rating *float64) string {
	if rating == nil {
		return "-"
	}
	return strconv.FormatFloat(*rating, 'f', 1, 64)
}

func subjectsCell(offerings []models.RankedOffering) string {
	names := make([]string, 0, len(offerings))
	seen := make(map[string]struct{}, len(offerings))
	for _, o := range offerings {
		if _, ok := seen[o.SubjectName]; ok {
			continue
		}
		seen[o.SubjectName] = struct{}{}
		names = append(names, o.SubjectName)
	}
	return strings.Join(names, ", ")
}

func priceCell(offerings []models.RankedOffering) string {
	if len(offerings) == 0 {
		return "-"
	}
	min := offerings[0].MinPrice()
	for _, o := range offerings[1:] {
		if p := o.MinPrice(); p < min {
			min = p
		}
	}
	return strconv.FormatFloat(min, 'f', 0, 64)
}
