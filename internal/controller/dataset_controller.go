package controller

import (
	"edu_analytics_backend/internal/analytics"
	"edu_analytics_backend/internal/service"
	"edu_analytics_backend/internal/util"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

type DatasetController struct {
	DatasetService *service.DatasetService
}

func NewDatasetController(datasetService *service.DatasetService) *DatasetController {
	return &DatasetController{DatasetService: datasetService}
}

// ImportWorkbook godoc
// @Summary 导入数据集工作簿
// @Description 上传 xlsx（students + lecture_weights 两个工作表），整表替换现有数据
// @Tags 数据集
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "数据集工作簿（.xlsx）"
// @Success 200 {object} util.Response "导入批次信息"
// @Failure 400 {object} util.Response "文件缺失或格式错误"
// @Failure 422 {object} util.Response "表结构不符合要求"
// @Router /api/datasets/import [post]
func (c *DatasetController) ImportWorkbook(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		util.BadRequest(ctx, "仅支持 .xlsx 工作簿")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	var importedBy uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		importedBy = claims.UserID
	}

	imp, err := c.DatasetService.ImportWorkbook(ctx.Request.Context(), fileHeader.Filename, src, importedBy)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}
	util.Success(ctx, imp)
}

func respondDatasetError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSheetNotFound),
		errors.Is(err, analytics.ErrSchemaMissingColumn),
		errors.Is(err, analytics.ErrSchemaNoSkillColumns),
		errors.Is(err, analytics.ErrSchemaMissingSkill),
		errors.Is(err, util.ErrNegativeWeight):
		util.UnprocessableEntity(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
