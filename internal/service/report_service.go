package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/timetrack"
)

// ReportService exports tracked work time as an xlsx workbook.
type ReportService struct {
	sessionRepo *repository.SessionRepository
}

func NewReportService(sessionRepo *repository.SessionRepository) *ReportService {
	return &ReportService{sessionRepo: sessionRepo}
}

const (
	sheetSessions = "工作明細"
	sheetShares   = "層級分布"
)

// WeeklyReport builds a workbook of the user's sessions from Monday of the
// current week through the given day, plus a per-tier share sheet. Returns
// the file bytes and a suggested filename.
func (s *ReportService) WeeklyReport(ctx context.Context, user *model.User, now time.Time) ([]byte, string, error) {
	weekStart := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	from := timetrack.DateString(weekStart)
	to := timetrack.DateString(now)

	sessions, err := s.sessionRepo.ListRange(ctx, user.ID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("list sessions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetSessions)
	if err := writeSessionSheet(f, sessions); err != nil {
		return nil, "", err
	}

	if _, err := f.NewSheet(sheetShares); err != nil {
		return nil, "", fmt.Errorf("create share sheet: %w", err)
	}
	if err := writeShareSheet(f, timetrack.TierShares(sessions)); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("weekly-report-%s.xlsx", to)
	return buf.Bytes(), filename, nil
}

func writeSessionSheet(f *excelize.File, sessions []model.WorkSession) error {
	headers := []string{"日期", "任務", "層級", "開始", "結束", "時長"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetSessions, cell, header); err != nil {
			return err
		}
	}

	for i, session := range sessions {
		row := i + 2
		values := []interface{}{
			session.Date,
			session.TaskTitle,
			session.Tier.String(),
			session.StartTime.Format("15:04"),
			session.EndTime.Format("15:04"),
			timetrack.FormatMinutes(session.DurationMinutes),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetSessions, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(sheetSessions, "A", "F", 16)
}

func writeShareSheet(f *excelize.File, shares []timetrack.TierShare) error {
	headers := []string{"層級", "時長", "佔比"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetShares, cell, header); err != nil {
			return err
		}
	}

	for i, share := range shares {
		row := i + 2
		values := []interface{}{
			share.Tier.String(),
			timetrack.FormatMinutesAsHours(share.Minutes),
			fmt.Sprintf("%d%%", share.Percentage),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetShares, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(sheetShares, "A", "C", 16)
}
