package analytics

import "errors"

var (
	// ErrStudentNotFound 学生在记录表中不存在，边界处按"无数据"处理而非崩溃
	ErrStudentNotFound = errors.New("未找到该学生的学习记录")
	// ErrNoWeightedChapters 学生有记录，但没有任何章节命中权重表
	ErrNoWeightedChapters = errors.New("该学生没有命中任何加权章节")
	// ErrDegenerateSkill 技能的权重总和为 0，理论满分无意义
	ErrDegenerateSkill = errors.New("技能的权重总和为 0")
	// ErrSchemaNoSkillColumns 权重表缺少技能列
	ErrSchemaNoSkillColumns = errors.New("权重表至少需要一个技能列")
	// ErrSchemaMissingSkill 权重表某行缺少技能列的值
	ErrSchemaMissingSkill = errors.New("权重表行缺少技能列")
	// ErrSchemaMissingColumn 输入表缺少必需列
	ErrSchemaMissingColumn = errors.New("输入表缺少必需列")
)
