package services

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"agrostock_backend/internal/models"
	"agrostock_backend/internal/repositories"
	"agrostock_backend/pkg/utils"
)

// ErrEmptyImport is returned when the CSV has no usable header row.
var ErrEmptyImport = errors.New("import file is empty or has no header row")

// ImportRowError records a non-fatal failure for one CSV line.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportSummary is the partial-success report of a CSV import.
type ImportSummary struct {
	ImportedCount int              `json:"imported_count"`
	Errors        []ImportRowError `json:"errors,omitempty"`
}

type varietyImportRow struct {
	line           int
	productName    string
	varietyName    string
	description    string
	initialStockKg float64
}

// ImportService bulk-loads varieties from a CSV file. Rows fail
// individually; the batch never aborts on a bad line.
type ImportService interface {
	ImportVarieties(r io.Reader) (*ImportSummary, error)
}

type importService struct {
	catalogRepo repositories.CatalogRepository
	eventRepo   repositories.EventRepository
	db          *sql.DB
}

// NewImportService creates a new instance of ImportService.
func NewImportService(
	cr repositories.CatalogRepository,
	er repositories.EventRepository,
	db *sql.DB,
) ImportService {
	return &importService{catalogRepo: cr, eventRepo: er, db: db}
}

// normalizeHeader makes CSV headers insensitive to case and spacing:
// " Initial Stock " and "INITIAL_STOCK" both map to INITIAL_STOCK.
func normalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(header)), " ", "_")
}

// columnValue resolves the first matching alias for a column.
func columnValue(row map[string]string, aliases ...string) string {
	for _, alias := range aliases {
		if value, ok := row[alias]; ok && value != "" {
			return value
		}
	}
	return ""
}

// parseVarietyRows reads and validates the CSV, collecting per-row errors.
// Only an unreadable file or a missing header row is fatal.
func parseVarietyRows(r io.Reader) ([]varietyImportRow, []ImportRowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validate per row instead
	reader.TrimLeadingSpace = true

	headerRecord, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyImport
		}
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := make([]string, len(headerRecord))
	for i, h := range headerRecord {
		headers[i] = normalizeHeader(h)
	}

	rows := []varietyImportRow{}
	rowErrors := []ImportRowError{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: line, Error: "unreadable CSV line: " + err.Error()})
			continue
		}

		fields := map[string]string{}
		for i, value := range record {
			if i < len(headers) {
				fields[headers[i]] = strings.TrimSpace(value)
			}
		}

		productName := columnValue(fields, "PRODUCT", "NOM_PRODUIT", "PRODUIT")
		varietyName := columnValue(fields, "VARIETY", "NOM_VARIETE", "VARIETE")
		if productName == "" || varietyName == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: line, Error: "missing product or variety name"})
			continue
		}

		row := varietyImportRow{
			line:        line,
			productName: productName,
			varietyName: varietyName,
			description: columnValue(fields, "DESCRIPTION"),
		}
		if stockValue := columnValue(fields, "INITIAL_STOCK", "STOCK_INITIAL_KG", "STOCK"); stockValue != "" {
			stock, err := strconv.ParseFloat(stockValue, 64)
			if err != nil {
				rowErrors = append(rowErrors, ImportRowError{Row: line, Error: "invalid initial stock value '" + stockValue + "'"})
				continue
			}
			if stock < 0 {
				rowErrors = append(rowErrors, ImportRowError{Row: line, Error: "initial stock cannot be negative"})
				continue
			}
			row.initialStockKg = stock
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func (s *importService) ImportVarieties(r io.Reader) (*ImportSummary, error) {
	rows, rowErrors, err := parseVarietyRows(r)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Errors: rowErrors}
	for _, row := range rows {
		if err := s.importRow(row); err != nil {
			summary.Errors = append(summary.Errors, ImportRowError{Row: row.line, Error: err.Error()})
			continue
		}
		summary.ImportedCount++
	}
	return summary, nil
}

// importRow creates one variety in its own transaction: find-or-create the
// product, create the variety, then record any initial stock as an opening
// harvest so the ledger invariant holds for imported data too.
func (s *importService) importRow(row varietyImportRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	product, err := s.catalogRepo.FindProductByName(tx, row.productName)
	if errors.Is(err, repositories.ErrNotFound) {
		product = &models.Product{Name: row.productName}
		if _, err := s.catalogRepo.CreateProduct(tx, product); err != nil {
			return fmt.Errorf("failed to create product '%s': %w", row.productName, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up product '%s': %w", row.productName, err)
	}

	variety := models.Variety{
		Name:        row.varietyName,
		Description: utils.NewNullString(row.description),
		ProductID:   product.ID,
		StockOnHand: row.initialStockKg,
	}
	if _, err := s.catalogRepo.CreateVariety(tx, &variety); err != nil {
		return fmt.Errorf("failed to create variety '%s': %w", row.varietyName, err)
	}

	if row.initialStockKg > 0 {
		if _, err := s.eventRepo.InsertHarvest(tx, variety.ID, row.initialStockKg); err != nil {
			return fmt.Errorf("failed to record opening stock for '%s': %w", row.varietyName, err)
		}
	}
	return tx.Commit()
}
