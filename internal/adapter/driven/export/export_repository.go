package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implements the ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository creates a new ExportRepository implementation.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportInventoryToJSON writes the full inventory document. An empty
// outputPath defaults to aws_inventory_<timestamp>.json in the working
// directory.
func (r *ExportRepositoryImpl) ExportInventoryToJSON(account *entity.Account, outputPath string) (string, error) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("aws_inventory_%s.json", timestamp)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(account); err != nil {
		return "", fmt.Errorf("error encoding inventory document: %w", err)
	}

	return filepath.Abs(outputPath)
}

func (r *ExportRepositoryImpl) ExportSummaryToCSV(summary entity.Summary, accountID, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Account ID", "Resource Type", "Count", "Total Size (bytes)", "Total Allocated (GB)", "Total Objects"})
	for _, key := range sortedTypeKeys(summary) {
		entry := summary.Types[key]
		writer.Write([]string{
			accountID,
			key,
			strconv.Itoa(entry.Count),
			strconv.FormatInt(entry.TotalSizeBytes, 10),
			strconv.FormatInt(entry.TotalAllocatedGB, 10),
			strconv.FormatInt(entry.TotalObjects, 10),
		})
	}
	writer.Write([]string{accountID, "TOTAL", strconv.Itoa(summary.TotalResources), "", "", ""})

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportSummaryToPDF(summary entity.Summary, accountID, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	rowLineColor := [3]int{200, 200, 200}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, tr(fmt.Sprintf("AWS Inventory Summary - Account %s", accountID)), "", 1, "C", true, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	widths := []float64{60, 25, 40, 35, 30}
	headers := []string{"Resource Type", "Count", "Size (bytes)", "Allocated (GB)", "Objects"}
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetDrawColor(rowLineColor[0], rowLineColor[1], rowLineColor[2])
	for _, key := range sortedTypeKeys(summary) {
		entry := summary.Types[key]
		cells := []string{
			key,
			strconv.Itoa(entry.Count),
			strconv.FormatInt(entry.TotalSizeBytes, 10),
			strconv.FormatInt(entry.TotalAllocatedGB, 10),
			strconv.FormatInt(entry.TotalObjects, 10),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, tr(cell), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Total resources: %d", summary.TotalResources))
	if summary.ErrorCount > 0 {
		pdf.Ln(6)
		pdf.Cell(0, 8, fmt.Sprintf("Collection errors: %d", summary.ErrorCount))
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated at %s", time.Now().Format("2006-01-02 15:04:05")))

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// generateFilename creates a unique timestamped filename and makes sure
// the directory exists.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

func sortedTypeKeys(summary entity.Summary) []string {
	keys := make([]string, 0, len(summary.Types))
	for key := range summary.Types {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
