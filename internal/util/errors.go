package util

import "errors"

var (
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrDatasetEmpty    = errors.New("数据集为空，请先导入学生记录和权重表")
	ErrSheetNotFound   = errors.New("工作簿缺少必需的工作表")
	ErrNegativeWeight  = errors.New("权重不能为负数")
)
