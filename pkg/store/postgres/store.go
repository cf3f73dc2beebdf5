package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/innovatech/employee-portal/pkg/config"
	"github.com/innovatech/employee-portal/pkg/model"
	"github.com/innovatech/employee-portal/pkg/store"
)

type Store struct {
	db *gorm.DB
}

func NewStore(cfg *config.DatabaseConfig) (*Store, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return &Store{db: db}, nil
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&model.Employee{},
		&model.Credential{},
	)
}

type EmployeeRepository struct {
	db     *gorm.DB
	policy store.ConflictPolicy
}

func NewEmployeeRepository(db *gorm.DB, policy store.ConflictPolicy) *EmployeeRepository {
	return &EmployeeRepository{db: db, policy: policy}
}

func (r *EmployeeRepository) Create(ctx context.Context, input model.EmployeeInput) (string, error) {
	employee := model.Employee{
		EmployeeID:  uuid.NewString(),
		Name:        input.Name,
		Email:       input.Email,
		Department:  input.Department,
		WorkspaceID: input.WorkspaceID,
		Status:      model.EmployeeActive,
	}
	if err := r.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return "", err
	}
	return employee.EmployeeID, nil
}

func (r *EmployeeRepository) Get(ctx context.Context, employeeID string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).First(&employee, "employee_id = ?", employeeID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	if r.policy == store.ConflictError {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Employee{}).
			Where("lower(email) = lower(?)", email).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 1 {
			return nil, store.ErrEmailConflict
		}
	}

	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		Order("employee_id").
		First(&employee).Error
	if err == gorm.ErrRecordNotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	employees := make([]model.Employee, 0)
	if err := r.db.WithContext(ctx).Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employeeID string, update model.EmployeeUpdate) (*model.Employee, error) {
	values := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.Department != nil {
		values["department"] = *update.Department
	}
	if update.Status != nil {
		values["status"] = string(*update.Status)
	}

	result := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("employee_id = ?", employeeID).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}

	return r.Get(ctx, employeeID)
}

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) ByEmployeeID(ctx context.Context, employeeID string) (*model.Credential, error) {
	var credential model.Credential
	err := r.db.WithContext(ctx).First(&credential, "employee_id = ?", employeeID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

func (r *CredentialRepository) ByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var credential model.Credential
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		Order("employee_id").
		First(&credential).Error
	if err == gorm.ErrRecordNotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &credential, nil
}
