package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

func setupTestExportService() (ExportService, *testRepos) {
	repos := newTestRepos()
	repos.addStandardCast()
	repos.addDonation(&model.Donation{DonationID: "don-1", DonorID: donorActor.ID, Type: model.DonationTypeFood, Quantity: 10})
	repos.addDonation(&model.Donation{DonationID: "don-2", DonorID: donorActor.ID, Type: model.DonationTypeClothing, Quantity: 5})
	return NewExportService(repos.repo, testAuthorizer(), zap.NewNop()), repos
}

func TestColName(t *testing.T) {
	cases := map[int]string{0: "A", 5: "F", 25: "Z", 26: "AA"}
	for idx, want := range cases {
		if got := colName(idx); got != want {
			t.Errorf("colName(%d) = %s, want %s", idx, got, want)
		}
	}
}

func TestExportService_ExportDonations(t *testing.T) {
	svc, _ := setupTestExportService()

	buf, filename, err := svc.ExportDonations(context.Background(), adminActor, &dto.ExportDonationsRequest{})
	if err != nil {
		t.Fatalf("export should succeed: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("unexpected filename %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output should be a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Donations")
	if err != nil {
		t.Fatalf("Donations sheet missing: %v", err)
	}
	// title, header, two donations, totals
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[1][0] != "Donation ID" {
		t.Errorf("unexpected header %v", rows[1])
	}
	total, _ := f.GetCellValue("Donations", "F5")
	if total != "15" {
		t.Errorf("expected total 15, got %s", total)
	}
}

func TestExportService_ExportDonations_AdminOnly(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportDonations(context.Background(), donorActor, &dto.ExportDonationsRequest{})
	if !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestExportService_ExportDonations_BadRange(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportDonations(context.Background(), adminActor, &dto.ExportDonationsRequest{From: "2026-05-02", To: "2026-05-01"})
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestExportService_DonorStatement(t *testing.T) {
	svc, repos := setupTestExportService()
	repos.addUser("donor-2", model.RoleDonor, model.UserApproved)

	buf, filename, err := svc.DonorStatement(context.Background(), donorActor, donorActor.ID)
	if err != nil {
		t.Fatalf("own statement should render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
	if !strings.HasSuffix(filename, ".pdf") {
		t.Errorf("unexpected filename %s", filename)
	}

	if _, _, err := svc.DonorStatement(context.Background(), donorActor, "donor-2"); !errors.Is(err, pkgerrors.ErrNotOwner) {
		t.Errorf("another donor's statement: expected ErrNotOwner, got %v", err)
	}
	if _, _, err := svc.DonorStatement(context.Background(), adminActor, "donor-2"); err != nil {
		t.Errorf("admin should render any statement: %v", err)
	}
	if _, _, err := svc.DonorStatement(context.Background(), adminActor, foodbankActor.ID); !errors.Is(err, ErrNotADonor) {
		t.Errorf("expected ErrNotADonor, got %v", err)
	}
}
