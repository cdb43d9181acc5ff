package service

import (
	"fmt"
	"time"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/utils"
)

// 导出格式
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var exportHeaders = []string{"编号", "标题", "社区", "问题类型", "位置", "严重程度", "状态", "描述", "上报时间", "整改时间", "整改说明"}

// ExportService 问题导出服务
type ExportService struct {
	problems   *ProblemService
	catalog    *CommunityService
	timeLayout string
}

// NewExportService 创建导出服务
func NewExportService(problems *ProblemService, catalog *CommunityService) *ExportService {
	return &ExportService{problems: problems, catalog: catalog, timeLayout: "2006-01-02 15:04:05"}
}

// Export 导出问题列表, 返回文件内容与文件名
func (s *ExportService) Export(caller *models.User, q dto.ProblemQuery, format string) ([]byte, string, error) {
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, "", newError(ErrBadRequest, dto.MsgExportFormat)
	}

	items, err := s.problems.Export(caller, q)
	if err != nil {
		return nil, "", err
	}
	rows, err := s.rows(items)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("problems_%s.%s", time.Now().Format("20060102150405"), format)
	var data []byte
	switch format {
	case FormatCSV:
		data, err = utils.ConvertRowsToCSV(exportHeaders, rows)
	default:
		data, err = utils.ConvertRowsToXLSX("问题列表", exportHeaders, rows)
	}
	if err != nil {
		return nil, "", fmt.Errorf("生成导出文件失败: %w", err)
	}
	return data, filename, nil
}

func (s *ExportService) rows(items []models.Problem) ([][]interface{}, error) {
	communities, err := s.catalog.ListCommunities()
	if err != nil {
		return nil, err
	}
	types, err := s.catalog.ListTypes()
	if err != nil {
		return nil, err
	}
	communityText := make(map[string]string, len(communities))
	for _, c := range communities {
		communityText[c.CommunityID] = c.CommunityText
	}
	typeText := make(map[string]string, len(types))
	for _, t := range types {
		typeText[t.TypeID] = t.TypeText
	}

	rows := make([][]interface{}, 0, len(items))
	for _, p := range items {
		severity := ""
		if p.Severity != "" {
			severity = p.Severity.Text()
		}
		resolvedAt := ""
		if p.ResolvedAt != nil {
			resolvedAt = p.ResolvedAt.Format(s.timeLayout)
		}
		rows = append(rows, []interface{}{
			p.ProblemID,
			p.Title,
			communityText[p.CommunityID],
			typeText[p.TypeID],
			p.Location,
			severity,
			p.Status.Text(),
			p.Description,
			p.CreatedAt.Format(s.timeLayout),
			resolvedAt,
			p.FixDescription,
		})
	}
	return rows, nil
}
