package controller

import (
	"edu_analytics_backend/internal/analytics"
	"edu_analytics_backend/internal/service"
	"edu_analytics_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
	ChartService     *service.ChartService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService, chartService *service.ChartService) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService: analyticsService,
		ChartService:     chartService,
	}
}

// GetStudents godoc
// @Summary 获取学生名单
// @Description 获取记录表中出现过的全部学生姓名
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/analytics/students [get]
func (c *AnalyticsController) GetStudents(ctx *gin.Context) {
	names, err := c.AnalyticsService.ListStudents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"students": names})
}

// GetSkillScores godoc
// @Summary 获取学生技能得分
// @Description 按技能归一化后的熟练度得分（0~100）
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param name path string true "学生姓名"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "无该学生数据"
// @Failure 422 {object} util.Response "权重表存在退化技能"
// @Router /api/analytics/students/{name}/skills [get]
func (c *AnalyticsController) GetSkillScores(ctx *gin.Context) {
	studentName := ctx.Param("name")

	scores, err := c.AnalyticsService.GetSkillScores(studentName)
	if err != nil {
		respondAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"skills": scores})
}

// GetSkillReport godoc
// @Summary 获取学生技能分析报告
// @Description 最强/最弱技能、最弱技能权重最高的章节、总体进度
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param name path string true "学生姓名"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "无该学生数据"
// @Failure 422 {object} util.Response "权重表存在退化技能"
// @Router /api/analytics/students/{name}/report [get]
func (c *AnalyticsController) GetSkillReport(ctx *gin.Context) {
	studentName := ctx.Param("name")

	report, err := c.AnalyticsService.GetSkillReport(ctx.Request.Context(), studentName)
	if err != nil {
		respondAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// RenderSkillRadar godoc
// @Summary 生成技能熟练度雷达图
// @Description 渲染 HTML 图表产物并持久化，返回访问地址
// @Tags 图表
// @Produce json
// @Security BearerAuth
// @Param name path string true "学生姓名"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "无该学生数据"
// @Router /api/analytics/students/{name}/charts/skill-radar [post]
func (c *AnalyticsController) RenderSkillRadar(ctx *gin.Context) {
	studentName := ctx.Param("name")

	url, err := c.ChartService.SkillRadarChart(ctx.Request.Context(), studentName)
	if err != nil {
		respondAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// RenderStudyTimeChart godoc
// @Summary 生成学习时长折线图
// @Tags 图表
// @Produce json
// @Security BearerAuth
// @Param name path string true "学生姓名"
// @Param lecture path int true "讲次"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "无该学生数据"
// @Router /api/analytics/students/{name}/lectures/{lecture}/charts/study-time [post]
func (c *AnalyticsController) RenderStudyTimeChart(ctx *gin.Context) {
	studentName := ctx.Param("name")
	lecture, err := strconv.Atoi(ctx.Param("lecture"))
	if err != nil {
		util.BadRequest(ctx, "Invalid lecture")
		return
	}

	url, err := c.ChartService.StudyTimeChart(ctx.Request.Context(), studentName, lecture)
	if err != nil {
		respondAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// RenderIncorrectCountChart godoc
// @Summary 生成错题数折线图
// @Tags 图表
// @Produce json
// @Security BearerAuth
// @Param name path string true "学生姓名"
// @Param lecture path int true "讲次"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "无该学生数据"
// @Router /api/analytics/students/{name}/lectures/{lecture}/charts/incorrect-count [post]
func (c *AnalyticsController) RenderIncorrectCountChart(ctx *gin.Context) {
	studentName := ctx.Param("name")
	lecture, err := strconv.Atoi(ctx.Param("lecture"))
	if err != nil {
		util.BadRequest(ctx, "Invalid lecture")
		return
	}

	url, err := c.ChartService.IncorrectCountChart(ctx.Request.Context(), studentName, lecture)
	if err != nil {
		respondAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// respondAnalyticsError 把引擎错误映射为 HTTP 状态：
// 无数据类错误是 404，退化技能是 422，其余按内部错误处理
func respondAnalyticsError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, analytics.ErrStudentNotFound),
		errors.Is(err, analytics.ErrNoWeightedChapters),
		errors.Is(err, util.ErrDatasetEmpty):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, analytics.ErrDegenerateSkill):
		util.UnprocessableEntity(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
