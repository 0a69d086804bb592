package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

// ExportService builds downloadable reports.
//
// Files are returned as a buffer plus a suggested filename; the handler sets
// the response headers.
type ExportService interface {
	// ExportDonations all donations matching the filter as .xlsx (admin).
	ExportDonations(ctx context.Context, actor workflow.Actor, req *dto.ExportDonationsRequest) (*bytes.Buffer, string, error)
	// DonorStatement one donor's donation history as PDF (admin or the donor).
	DonorStatement(ctx context.Context, actor workflow.Actor, donorID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	authz  *workflow.Authorizer
	logger *zap.Logger
	now    func() time.Time
}

func NewExportService(repo *repository.Repository, authz *workflow.Authorizer, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, authz: authz, logger: logger, now: time.Now}
}

func userLabel(u *model.User, id *string) string {
	if u != nil {
		return u.DisplayName()
	}
	if id != nil {
		return *id
	}
	return "-"
}

// ═══════════════════════════════════════════════════════════
// ExportDonations
// ═══════════════════════════════════════════════════════════
//
// Sheet "Donations": title row, header row, one row per donation, totals row.

var donationColumns = []struct {
	title string
	width float64
}{
	{"Donation ID", 38},
	{"Created", 20},
	{"Donor", 24},
	{"Foodbank", 24},
	{"Type", 12},
	{"Quantity", 10},
	{"Status", 12},
	{"Description", 40},
}

func (s *exportService) ExportDonations(ctx context.Context, actor workflow.Actor, req *dto.ExportDonationsRequest) (*bytes.Buffer, string, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectReport); err != nil {
		return nil, "", err
	}

	filter := repository.DonationFilter{
		Status: model.DonationStatus(req.Status),
		Type:   model.DonationType(req.Type),
	}
	if req.From != "" {
		t, err := dto.ParseDate(req.From)
		if err != nil {
			return nil, "", ErrInvalidDate
		}
		filter.From = &t
	}
	if req.To != "" {
		t, err := dto.ParseDate(req.To)
		if err != nil {
			return nil, "", ErrInvalidDate
		}
		end := t.AddDate(0, 0, 1)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, "", ErrInvalidPeriod
	}

	donations, _, err := s.repo.Donation.List(ctx, filter, 0, 0)
	if err != nil {
		s.logger.Error("list donations for export failed", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Donations"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, c := range donationColumns {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, c.width)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Donations export (%s)", s.now().UTC().Format("2006-01-02")))
	f.MergeCell(sheetName, "A1", cell(colName(len(donationColumns)-1), 1))

	row := 2
	for i, c := range donationColumns {
		f.SetCellValue(sheetName, cell(colName(i), row), c.title)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(donationColumns)-1), row), headerStyle)

	total := 0
	for i := range donations {
		d := &donations[i]
		row++
		values := []interface{}{
			d.DonationID,
			d.CreatedAt.UTC().Format("2006-01-02 15:04"),
			userLabel(d.Donor, &d.DonorID),
			userLabel(d.Foodbank, d.FoodbankID),
			string(d.Type),
			d.Quantity,
			string(d.Status),
			d.Description,
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
		total += d.Quantity
	}

	row++
	f.SetCellValue(sheetName, cell("A", row), "Total")
	f.SetCellValue(sheetName, cell(colName(5), row), total)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("donations_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// DonorStatement
// ═══════════════════════════════════════════════════════════

func (s *exportService) DonorStatement(ctx context.Context, actor workflow.Actor, donorID string) (*bytes.Buffer, string, error) {
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectReport, permission.OwnerKeys{Donor: donorID}); err != nil {
		return nil, "", err
	}

	donor, err := loadUserWithRole(ctx, s.repo, s.logger, donorID, model.RoleDonor, ErrNotADonor)
	if err != nil {
		return nil, "", err
	}

	donations, _, err := s.repo.Donation.List(ctx, repository.DonationFilter{DonorID: donorID}, 0, 0)
	if err != nil {
		s.logger.Error("list donations for statement failed", zap.String("donor_id", donorID), zap.Error(err))
		return nil, "", err
	}

	buf, err := renderStatement(donor, donations, s.now())
	if err != nil {
		s.logger.Error("render statement failed", zap.String("donor_id", donorID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("statement_%s_%s.pdf", donorID, s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

var statementColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 28, "L"},
	{"Type", 26, "L"},
	{"Quantity", 22, "R"},
	{"Status", 28, "L"},
	{"Foodbank", 76, "L"},
}

func renderStatement(donor *model.User, donations []model.Donation, generated time.Time) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Donation statement", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, tr(donor.DisplayName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, donor.Email, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, "Generated: "+generated.UTC().Format("2006-01-02 15:04 UTC"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range statementColumns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(242, 242, 242)
	total := 0
	for i := range donations {
		d := &donations[i]
		fill := i%2 == 1
		values := []string{
			d.CreatedAt.UTC().Format("2006-01-02"),
			string(d.Type),
			fmt.Sprintf("%d", d.Quantity),
			string(d.Status),
			tr(userLabel(d.Foodbank, d.FoodbankID)),
		}
		for col, c := range statementColumns {
			pdf.CellFormat(c.width, 7, values[col], "1", 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
		total += d.Quantity
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(statementColumns[0].width+statementColumns[1].width, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(statementColumns[2].width, 8, fmt.Sprintf("%d", total), "1", 0, "R", false, 0, "")
	pdf.CellFormat(statementColumns[3].width+statementColumns[4].width, 8,
		fmt.Sprintf("%d donations", len(donations)), "1", 1, "L", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
