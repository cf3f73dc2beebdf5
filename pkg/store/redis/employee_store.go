package redis

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/innovatech/employee-portal/pkg/model"
	"github.com/innovatech/employee-portal/pkg/store"
)

// Key layout:
//
//	portal:employees:<id>           JSON employee record
//	portal:employees:ids            set of all employee ids
//	portal:employees:email:<email>  set of ids carrying that email (lowercased)
//	portal:credentials:<id>         JSON credential, written by the provisioner
//	portal:credentials:email:<email> employee id, written by the provisioner
const (
	employeeKeyPrefix     = "portal:employees:"
	employeeIndexKey      = "portal:employees:ids"
	emailIndexPrefix      = "portal:employees:email:"
	credentialKeyPrefix   = "portal:credentials:"
	credentialEmailPrefix = "portal:credentials:email:"
)

type EmployeeStore struct {
	rdb    redis.UniversalClient
	policy store.ConflictPolicy
}

func NewEmployeeStore(rdb redis.UniversalClient, policy store.ConflictPolicy) *EmployeeStore {
	return &EmployeeStore{rdb: rdb, policy: policy}
}

func (s *EmployeeStore) Create(ctx context.Context, input model.EmployeeInput) (string, error) {
	now := time.Now().UTC()
	employee := model.Employee{
		EmployeeID:  uuid.NewString(),
		Name:        input.Name,
		Email:       input.Email,
		Department:  input.Department,
		WorkspaceID: input.WorkspaceID,
		Status:      model.EmployeeActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := json.Marshal(employee)
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, employeeKey(employee.EmployeeID), data, 0)
	pipe.SAdd(ctx, employeeIndexKey, employee.EmployeeID)
	pipe.SAdd(ctx, emailIndexKey(employee.Email), employee.EmployeeID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}

	return employee.EmployeeID, nil
}

func (s *EmployeeStore) Get(ctx context.Context, employeeID string) (*model.Employee, error) {
	data, err := s.rdb.Get(ctx, employeeKey(employeeID)).Bytes()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var employee model.Employee
	if err := json.Unmarshal(data, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *EmployeeStore) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	ids, err := s.rdb.SMembers(ctx, emailIndexKey(email)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, store.ErrNotFound
	}
	if len(ids) > 1 && s.policy == store.ConflictError {
		return nil, store.ErrEmailConflict
	}

	// Lowest id wins so duplicate emails resolve deterministically.
	sort.Strings(ids)
	for _, id := range ids {
		employee, err := s.Get(ctx, id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		return employee, nil
	}
	return nil, store.ErrNotFound
}

func (s *EmployeeStore) List(ctx context.Context) ([]model.Employee, error) {
	ids, err := s.rdb.SMembers(ctx, employeeIndexKey).Result()
	if err != nil {
		return nil, err
	}

	employees := make([]model.Employee, 0, len(ids))
	if len(ids) == 0 {
		return employees, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, employeeKey(id))
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var employee model.Employee
		if err := json.Unmarshal([]byte(raw), &employee); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s *EmployeeStore) Update(ctx context.Context, employeeID string, update model.EmployeeUpdate) (*model.Employee, error) {
	employee, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	previousEmail := employee.Email
	employee.Apply(update)
	employee.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(employee)
	if err != nil {
		return nil, err
	}

	pipe := s.rdb.TxPipeline()
	if !strings.EqualFold(previousEmail, employee.Email) {
		pipe.SRem(ctx, emailIndexKey(previousEmail), employeeID)
		pipe.SAdd(ctx, emailIndexKey(employee.Email), employeeID)
	}
	pipe.Set(ctx, employeeKey(employeeID), data, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return employee, nil
}

type CredentialStore struct {
	rdb redis.UniversalClient
}

func NewCredentialStore(rdb redis.UniversalClient) *CredentialStore {
	return &CredentialStore{rdb: rdb}
}

func (s *CredentialStore) ByEmployeeID(ctx context.Context, employeeID string) (*model.Credential, error) {
	data, err := s.rdb.Get(ctx, credentialKeyPrefix+employeeID).Bytes()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var credential model.Credential
	if err := json.Unmarshal(data, &credential); err != nil {
		return nil, err
	}
	return &credential, nil
}

func (s *CredentialStore) ByEmail(ctx context.Context, email string) (*model.Credential, error) {
	employeeID, err := s.rdb.Get(ctx, credentialEmailPrefix+strings.ToLower(email)).Result()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.ByEmployeeID(ctx, employeeID)
}

func employeeKey(employeeID string) string {
	return employeeKeyPrefix + employeeID
}

func emailIndexKey(email string) string {
	return emailIndexPrefix + strings.ToLower(email)
}
