package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
)

// Store implements repository.Store on top of gorm
type Store struct {
	db   *gorm.DB
	ping func(ctx context.Context) error
}

// NewStore 基于连接池创建存储
func NewStore(pool *ConnectionPool) *Store {
	return &Store{db: pool.GetDB(), ping: pool.HealthCheck}
}

// NewStoreFromDB wraps an already opened gorm handle.
func NewStoreFromDB(db *gorm.DB) *Store {
	return &Store{db: db, ping: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

// Repositories 返回非事务仓储
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db)
}

// WithTransaction 在事务中执行函数
func (s *Store) WithTransaction(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// Ping 检查数据库连接
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func newRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Terminals:       &terminalRepository{db},
		Groups:          &groupRepository{db},
		FocalPersons:    &focalPersonRepository{db},
		Alerts:          &alertRepository{db},
		RescueForms:     &rescueFormRepository{db},
		PostRescueForms: &postRescueFormRepository{db},
		Sequences:       &sequenceRepository{db},
	}
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

type terminalRepository struct{ db *gorm.DB }

func (r *terminalRepository) Create(ctx context.Context, t *models.Terminal) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *terminalRepository) FindByID(ctx context.Context, id string) (*models.Terminal, error) {
	var t models.Terminal
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *terminalRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Terminal, error) {
	var t models.Terminal
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *terminalRepository) List(ctx context.Context, archived bool) ([]models.Terminal, error) {
	var out []models.Terminal
	err := r.db.WithContext(ctx).Where("archived = ?", archived).Order("id").Find(&out).Error
	return out, err
}

func (r *terminalRepository) Update(ctx context.Context, t *models.Terminal) error {
	return r.db.WithContext(ctx).Save(t).Error
}

type groupRepository struct{ db *gorm.DB }

func (r *groupRepository) Create(ctx context.Context, g *models.CommunityGroup) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(g).Error
}

func (r *groupRepository) FindByID(ctx context.Context, id string) (*models.CommunityGroup, error) {
	var g models.CommunityGroup
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *groupRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.CommunityGroup, error) {
	var g models.CommunityGroup
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&g, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *groupRepository) FindActiveByTerminal(ctx context.Context, terminalID string) (*models.CommunityGroup, error) {
	var g models.CommunityGroup
	err := r.db.WithContext(ctx).
		Where("terminal_id = ? AND archived = ?", terminalID, false).
		First(&g).Error
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *groupRepository) List(ctx context.Context, archived bool) ([]models.CommunityGroup, error) {
	var out []models.CommunityGroup
	err := r.db.WithContext(ctx).Where("archived = ?", archived).Order("id").Find(&out).Error
	return out, err
}

func (r *groupRepository) Update(ctx context.Context, g *models.CommunityGroup) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(g).Error
}

type focalPersonRepository struct{ db *gorm.DB }

func (r *focalPersonRepository) Create(ctx context.Context, p *models.FocalPerson) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *focalPersonRepository) ListByGroup(ctx context.Context, groupID string) ([]models.FocalPerson, error) {
	var out []models.FocalPerson
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("id").Find(&out).Error
	return out, err
}

func (r *focalPersonRepository) Update(ctx context.Context, p *models.FocalPerson) error {
	return r.db.WithContext(ctx).Save(p).Error
}

type alertRepository struct{ db *gorm.DB }

func (r *alertRepository) Create(ctx context.Context, a *models.Alert) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *alertRepository) FindByID(ctx context.Context, id string) (*models.Alert, error) {
	var a models.Alert
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *alertRepository) List(ctx context.Context, status models.AlertStatus) ([]models.Alert, error) {
	var out []models.Alert
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("date_time_sent DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *alertRepository) Update(ctx context.Context, a *models.Alert) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

type rescueFormRepository struct{ db *gorm.DB }

func (r *rescueFormRepository) Create(ctx context.Context, f *models.RescueForm) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *rescueFormRepository) FindByID(ctx context.Context, id string) (*models.RescueForm, error) {
	var f models.RescueForm
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *rescueFormRepository) FindByAlertID(ctx context.Context, alertID string) (*models.RescueForm, error) {
	var f models.RescueForm
	if err := r.db.WithContext(ctx).First(&f, "emergency_id = ?", alertID).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *rescueFormRepository) List(ctx context.Context) ([]models.RescueForm, error) {
	var out []models.RescueForm
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

type postRescueFormRepository struct{ db *gorm.DB }

func (r *postRescueFormRepository) Create(ctx context.Context, f *models.PostRescueForm) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *postRescueFormRepository) FindByAlertID(ctx context.Context, alertID string) (*models.PostRescueForm, error) {
	var f models.PostRescueForm
	if err := r.db.WithContext(ctx).First(&f, "alert_id = ?", alertID).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *postRescueFormRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.PostRescueForm, error) {
	var out []models.PostRescueForm
	q := r.db.WithContext(ctx)
	if !from.IsZero() {
		q = q.Where("completed_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("completed_at < ?", to)
	}
	err := q.Order("completed_at DESC").Find(&out).Error
	return out, err
}

type sequenceRepository struct{ db *gorm.DB }

// Next 锁定序列行并递增
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)

	// 序列行不存在时先插入，已存在则忽略
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.IDSequence{Name: name}).Error; err != nil {
		return 0, err
	}

	var seq models.IDSequence
	if err := db.Clauses(forUpdate).First(&seq, "name = ?", name).Error; err != nil {
		return 0, translate(err)
	}

	next := seq.Value + 1
	if err := db.Model(&models.IDSequence{}).Where("name = ?", name).Update("value", next).Error; err != nil {
		return 0, err
	}
	return next, nil
}
