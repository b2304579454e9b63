package repository

import (
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
)

// ExportRepository writes scan output to disk. The inventory document is
// always JSON; the summary can additionally be exported as CSV or PDF.
type ExportRepository interface {
	ExportInventoryToJSON(account *entity.Account, outputPath string) (string, error)

	ExportSummaryToCSV(summary entity.Summary, accountID, filename, outputDir string) (string, error)
	ExportSummaryToPDF(summary entity.Summary, accountID, filename, outputDir string) (string, error)
}
