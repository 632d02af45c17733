package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"invite-rsvp/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出内容与统计接口一致：全部确认记录（最新在前）+ 合计行，单个 Sheet。
type ExportService interface {
	// ExportAcceptances 导出确认列表为 Excel，返回内容与建议文件名
	ExportAcceptances(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo         *repository.Repository
	queryTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, queryTimeout time.Duration, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, queryTimeout: queryTimeout, logger: logger, now: time.Now}
}

const exportSheet = "Confirmaciones"

var exportHeaders = []string{"Nombre", "Contacto", "Invitaciones", "Fecha"}

func (s *exportService) ExportAcceptances(ctx context.Context) (*bytes.Buffer, string, error) {
	list, err := listAcceptances(ctx, s.repo, s.queryTimeout)
	if err != nil {
		s.logger.Error("查询邀请确认失败", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrLoadTally, err)
	}
	tally := buildTally(list)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", s.generateFailed(err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 表头
	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, "", s.generateFailed(err)
		}
	}

	// 明细行
	row := 2
	for i := range list {
		rec := &list[i]
		values := []interface{}{
			rec.GuestName,
			rec.ContactInfo,
			rec.Assistants(),
			rec.AcceptedAt.UTC().Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, "", s.generateFailed(err)
			}
		}
		row++
	}

	// 合计行
	totals := []interface{}{"Total confirmaciones", tally.TotalConfirmations, tally.TotalAssistants}
	for col, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return nil, "", s.generateFailed(err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "B", 32)
	_ = f.SetColWidth(exportSheet, "C", "D", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", s.generateFailed(err)
	}

	filename := fmt.Sprintf("confirmaciones-%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) generateFailed(err error) error {
	s.logger.Error("生成 Excel 失败", zap.Error(err))
	return fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
}
