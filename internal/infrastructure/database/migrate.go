package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/pkg/logger"
	"resqwave-dispatch-service/pkg/utils"
)

// 迁移模式
const (
	MigrationAuto  = "auto"  // 只添加新列和新表
	MigrationAlter = "alter" // 修改表结构以匹配模型
	MigrationDrop  = "drop"  // 删除并重建所有表
)

// allModels lists the tables owned by the service, parents before children.
func allModels() []interface{} {
	return []interface{}{
		&models.IDSequence{},
		&models.Terminal{},
		&models.CommunityGroup{},
		&models.FocalPerson{},
		&models.Alert{},
		&models.RescueForm{},
		&models.PostRescueForm{},
	}
}

// sequenceSources maps identifier prefixes to the table holding those IDs.
var sequenceSources = []struct {
	prefix string
	table  string
}{
	{models.PrefixTerminal, "terminals"},
	{models.PrefixCommunityGroup, "community_groups"},
	{models.PrefixFocalPerson, "focal_persons"},
	{models.PrefixCriticalAlert, "alerts"},
	{models.PrefixUserAlert, "alerts"},
	{models.PrefixRescueForm, "rescue_forms"},
	{models.PrefixPostRescueForm, "post_rescue_forms"},
}

// Migrate 根据迁移模式执行数据库迁移
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case MigrationDrop:
		logger.Warning("running in drop mode, every table will be dropped and recreated")
		if err := dropTables(db); err != nil {
			return err
		}
	case MigrationAlter:
		logger.Info("running in alter mode, columns will be altered to match the models")
		if err := alterTables(db); err != nil {
			return err
		}
	default:
		logger.Info("running in auto mode, only new tables and columns are added")
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return SeedSequences(db)
}

// dropTables 删除所有表
func dropTables(db *gorm.DB) error {
	m := db.Migrator()
	tables := allModels()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := m.DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// alterTables 修改已有列以匹配模型定义
func alterTables(db *gorm.DB) error {
	m := db.Migrator()
	for _, model := range allModels() {
		if !m.HasTable(model) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return err
		}
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" || !m.HasColumn(model, field.DBName) {
				continue
			}
			if err := m.AlterColumn(model, field.Name); err != nil {
				logger.L().Warn("alter column failed",
					zap.String("table", stmt.Schema.Table),
					zap.String("column", field.DBName),
					zap.Error(err))
			}
		}
	}
	return nil
}

// SeedSequences advances every sequence row to at least the largest suffix
// already stored, so tables populated before sequences existed keep issuing
// fresh identifiers.
func SeedSequences(db *gorm.DB) error {
	for _, src := range sequenceSources {
		var ids []string
		if err := db.Table(src.table).Where("id LIKE ?", src.prefix+"%").Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("scan %s: %w", src.table, err)
		}

		var max int64
		for _, id := range ids {
			if n, ok := utils.ParseCode(src.prefix, id); ok && n > max {
				max = n
			}
		}

		seq := models.IDSequence{Name: src.prefix, Value: max}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("GREATEST(value, ?)", max)}),
		}).Create(&seq).Error
		if err != nil {
			return fmt.Errorf("seed sequence %s: %w", src.prefix, err)
		}
	}
	logger.Info("identifier sequences seeded")
	return nil
}
