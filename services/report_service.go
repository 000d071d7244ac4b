package services

import (
	"context"
	"io"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/repositories"
)

// IncomeBinCount is the number of equal-width applicant income bins
const IncomeBinCount = 10

// ReportService interface defines the dashboard and ledger views
type ReportService interface {
	// Summary tabulates the ledger; username restricts it to one requester when not empty.
	// Read failures degrade to a report carrying a message instead of an error.
	Summary(ctx context.Context, username string) *models.Report
	// Table returns the ledger as rows for an HTML table, filtered like Summary
	Table(ctx context.Context, username string) (*models.LedgerTable, error)
	// Export opens the ledger file as stored; models.ErrNotFound when nothing was recorded yet
	Export(ctx context.Context) (io.ReadCloser, error)
}

// reportService implements ReportService interface
type reportService struct {
	ledgerRepo repositories.LedgerRepository
	logger     *logging.Logger
}

// NewReportService creates a new report service
func NewReportService(ledgerRepo repositories.LedgerRepository, logger *logging.Logger) ReportService {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &reportService{
		ledgerRepo: ledgerRepo,
		logger:     logger.Named("report"),
	}
}

// Summary implements ReportService
func (s *reportService) Summary(ctx context.Context, username string) *models.Report {
	records, err := s.load(ctx, username)
	if err != nil {
		s.logger.Warn("Failed to load ledger for report", zap.Error(err))
		return &models.Report{Empty: true, Message: "Error loading predictions: " + err.Error(), Username: username}
	}

	report := &models.Report{Username: username}
	var approvedIncome, rejectedIncome []float64

	for _, record := range records {
		income, incomeErr := strconv.ParseFloat(record.Value(models.FieldApplicantIncome), 64)
		hasIncome := incomeErr == nil && !math.IsNaN(income) && !math.IsInf(income, 0)

		switch record.Prediction {
		case models.Approved:
			report.Approved++
			if hasIncome {
				approvedIncome = append(approvedIncome, income)
			}
		case models.Rejected:
			report.Rejected++
			if hasIncome {
				rejectedIncome = append(rejectedIncome, income)
			}
		default:
			report.Excluded++
		}
	}

	report.Total = report.Approved + report.Rejected
	if report.Total == 0 {
		report.Empty = true
		report.Message = models.NoPredictionsMessage
		return report
	}

	report.ApprovedShare = float64(report.Approved) / float64(report.Total) * 100
	report.RejectedShare = float64(report.Rejected) / float64(report.Total) * 100
	report.Income = IncomeHistogram(approvedIncome, rejectedIncome, IncomeBinCount)

	return report
}

// Table implements ReportService
func (s *reportService) Table(ctx context.Context, username string) (*models.LedgerTable, error) {
	records, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}

	table := &models.LedgerTable{Columns: models.LedgerColumns()}
	for _, record := range records {
		table.Rows = append(table.Rows, record.Row())
	}
	return table, nil
}

// Export implements ReportService
func (s *reportService) Export(ctx context.Context) (io.ReadCloser, error) {
	return s.ledgerRepo.Open(ctx)
}

func (s *reportService) load(ctx context.Context, username string) ([]models.LedgerRecord, error) {
	if username != "" {
		return s.ledgerRepo.ByUsername(ctx, username)
	}
	return s.ledgerRepo.All(ctx)
}

// IncomeHistogram splits the income range of both groups into bins equal-width
// buckets and counts each group per bucket. The last bucket includes its upper edge.
func IncomeHistogram(approved, rejected []float64, bins int) []models.IncomeBin {
	if len(approved)+len(rejected) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, values := range [][]float64{approved, rejected} {
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	if lo == hi {
		return []models.IncomeBin{{Lower: lo, Upper: hi, Approved: len(approved), Rejected: len(rejected)}}
	}

	width := (hi - lo) / float64(bins)
	result := make([]models.IncomeBin, bins)
	for i := range result {
		result[i].Lower = lo + float64(i)*width
		result[i].Upper = lo + float64(i+1)*width
	}
	result[bins-1].Upper = hi

	bucket := func(v float64) int {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		return i
	}

	for _, v := range approved {
		result[bucket(v)].Approved++
	}
	for _, v := range rejected {
		result[bucket(v)].Rejected++
	}

	return result
}
