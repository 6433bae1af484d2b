package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ghaggin/eduarchive/internal/model"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	errTableFileIsDir = errors.New("table file is dir")
)

type Data struct {
	Users []model.User `json:"users"`
}

type jsonRepo struct {
	path string
	log  *zap.Logger

	mu   sync.RWMutex
	data *Data
}

func NewJSON(p Params) (Repository, error) {
	r := openJSON(p.Config.Repository.Path, p.Log)

	p.LC.Append(fx.Hook{
		OnStop: r.stop,
	})

	return r, nil
}

func openJSON(path string, log *zap.Logger) *jsonRepo {
	r := &jsonRepo{
		path: path,
		log:  log,
		data: &Data{},
	}

	err := r.readfile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		// only log, data will be empty and will overwrite when
		// the service is stopped
		r.log.Warn("failed reading json repo data file", zap.Error(err))
	}

	return r
}

func (r *jsonRepo) stop(_ context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writefile()
}

func (r *jsonRepo) readfile() error {
	finfo, err := os.Stat(r.path)
	if err != nil {
		return err
	}

	if finfo.IsDir() {
		return errTableFileIsDir
	}

	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(&r.data)
}

func (r *jsonRepo) writefile() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.path, b, 0o600)
}

func (r *jsonRepo) indexByID(id string) int {
	for i := range r.data.Users {
		if r.data.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *jsonRepo) indexByEmail(email string) int {
	for i := range r.data.Users {
		if r.data.Users[i].Email == email {
			return i
		}
	}
	return -1
}

func (r *jsonRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByEmail(email)
	if i < 0 {
		return nil, ErrNotFound
	}
	u := r.data.Users[i]
	return &u, nil
}

func (r *jsonRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	u := r.data.Users[i]
	return &u, nil
}

func (r *jsonRepo) Insert(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByEmail(user.Email) >= 0 {
		return ErrDuplicate
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.data.Users = append(r.data.Users, *user)
	return nil
}

func (r *jsonRepo) UpdateFields(_ context.Context, id string, update model.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	if update.Email != nil {
		if j := r.indexByEmail(*update.Email); j >= 0 && j != i {
			return nil, ErrDuplicate
		}
	}

	u := r.data.Users[i]
	apply(&u, update)
	u.UpdatedAt = time.Now().UTC()
	r.data.Users[i] = u

	return &u, nil
}
