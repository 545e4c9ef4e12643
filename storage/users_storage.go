package storage

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"

	"github.com/go-watchlist/watchlist/storage/model"
)

// UsersStorage returns a UsersStorage
func (s *Storage) UsersStorage() *UsersStorage {
	return &UsersStorage{db: s.db, params: s.userParams}
}

// UsersStorage implements model.UsersStore using GORM
type UsersStorage struct {
	db     *gorm.DB
	params Argon2idParams
}

// Count returns the number of users present in the store
func (s *UsersStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// First returns the user with the lowest id (without password hash)
func (s *UsersStorage) First() (*model.User, error) {
	var u model.User
	if err := s.db.Order("id").First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundError("no user provisioned")
		}
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

// Get returns a user by id (without password hash)
func (s *UsersStorage) Get(id uint) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("user not found: %d", id)
		}
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

// GetByUsername returns a user by username (without password hash)
func (s *UsersStorage) GetByUsername(username string) (*model.User, error) {
	u, err := s.byUsername(username)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *UsersStorage) byUsername(username string) (*model.User, error) {
	if username == "" {
		return nil, model.NotFoundError("user not found: empty username")
	}
	var u model.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("user not found: %s", username)
		}
		return nil, err
	}
	return &u, nil
}

// Create creates a user with an Argon2id-hashed password
func (s *UsersStorage) Create(username, password, name string) (*model.User, error) {
	if len(username) == 0 || len(password) == 0 {
		return nil, errors.Errorf("username and password are required")
	}
	if len(name) == 0 {
		return nil, errors.Errorf("name is required")
	}
	if err := s.checkUnique("username", username, 0); err != nil {
		return nil, err
	}
	if err := s.checkUnique("name", name, 0); err != nil {
		return nil, err
	}
	hash, err := hashPasswordArgon2id(password, s.params)
	if err != nil {
		return nil, err
	}
	u := model.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
	}
	if err = s.db.Create(&u).Error; err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

// EnsureOwner sets the display name of the first user. If no user exists yet
// one is created without credentials; it cannot log in before
// SetCredentials is called.
func (s *UsersStorage) EnsureOwner(name string) (*model.User, error) {
	if len(name) == 0 {
		return nil, errors.Errorf("name is required")
	}
	var u model.User
	err := s.db.Order("id").First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = model.User{Name: name}
		if err = s.db.Create(&u).Error; err != nil {
			return nil, err
		}
		return &u, nil
	}
	if err != nil {
		return nil, err
	}
	return s.UpdateName(u.ID, name)
}

// UpdateName changes the display name of a user
func (s *UsersStorage) UpdateName(id uint, name string) (*model.User, error) {
	if len(name) == 0 {
		return nil, errors.Errorf("name cannot be empty")
	}
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, model.NotFoundErrorFmt("user not found: %d", id)
	}
	if err := s.checkUnique("name", name, id); err != nil {
		return nil, err
	}
	u.Name = name
	if err := s.db.Save(&u).Error; err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

// SetCredentials replaces username and password of a user
func (s *UsersStorage) SetCredentials(id uint, username, password string) (*model.User, error) {
	if len(username) == 0 || len(password) == 0 {
		return nil, errors.Errorf("username and password are required")
	}
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, model.NotFoundErrorFmt("user not found: %d", id)
	}
	if err := s.checkUnique("username", username, id); err != nil {
		return nil, err
	}
	hash, err := hashPasswordArgon2id(password, s.params)
	if err != nil {
		return nil, err
	}
	u.Username = username
	u.PasswordHash = hash
	if err = s.db.Save(&u).Error; err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

// Authenticate validates username/password and auto-upgrades hash if params changed.
// Unknown usernames and wrong passwords both yield model.ErrInvalidCredentials.
func (s *UsersStorage) Authenticate(username, password string) (*model.User, error) {
	u, err := s.byUsername(username)
	if err != nil {
		var notFound model.NotFoundError
		if errors.As(err, &notFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := verifyPasswordArgon2id(u.PasswordHash, password)
	if err != nil || !ok {
		return nil, model.ErrInvalidCredentials
	}
	if stored, err := extractArgon2idParams(u.PasswordHash); err == nil && !argon2idParamsEqual(stored, s.params) {
		if newHash, err := hashPasswordArgon2id(password, s.params); err == nil {
			_ = s.db.Model(&model.User{}).Where("id = ?", u.ID).Update("password_hash", newHash).Error
		}
	}
	u.PasswordHash = ""
	return u, nil
}

// checkUnique returns an AlreadyExistsError if another user than exceptID
// already uses value in column
func (s *UsersStorage) checkUnique(column, value string, exceptID uint) error {
	var existing int64
	q := s.db.Model(&model.User{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return model.AlreadyExistsErrorFmt("%s already taken: %s", column, value)
	}
	return nil
}

// hashPasswordArgon2id returns a PHC-formatted argon2id hash string
// Format: $argon2id$v=19$m=65536,t=1,p=4$<saltB64>$<hashB64>
func hashPasswordArgon2id(password string, p Argon2idParams) (string, error) {
	if p.Time == 0 {
		p = defaultArgon2idParams()
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, p.KeyLen)
	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(dk)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", p.MemoryKiB, p.Time, p.Parallelism, saltB64, hashB64), nil
}

// verifyPasswordArgon2id verifies the given password against a PHC-formatted argon2id hash
func verifyPasswordArgon2id(encoded, password string) (bool, error) {
	params, salt, hash, err := parseArgon2id(encoded)
	if err != nil {
		return false, err
	}
	dk := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, uint32(len(hash)))
	return subtle.ConstantTimeCompare(dk, hash) == 1, nil
}

// extractArgon2idParams parses a PHC-formatted argon2id string and returns parameters
func extractArgon2idParams(encoded string) (Argon2idParams, error) {
	p, _, _, err := parseArgon2id(encoded)
	return p, err
}

// parseArgon2id parses a PHC-formatted argon2id hash and returns parameters, salt and hash bytes.
func parseArgon2id(encoded string) (Argon2idParams, []byte, []byte, error) {
	var out Argon2idParams
	if !strings.HasPrefix(encoded, "$argon2id$") {
		return out, nil, nil, errors.Errorf("unsupported password hash format")
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return out, nil, nil, errors.Errorf("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return out, nil, nil, errors.Errorf("unsupported argon2 version")
	}
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return out, nil, nil, err
			}
			out.MemoryKiB = uint32(n)
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return out, nil, nil, err
			}
			out.Time = uint32(n)
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil {
				return out, nil, nil, err
			}
			out.Parallelism = uint8(n)
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return out, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return out, nil, nil, err
	}
	out.SaltLen = uint32(len(salt))
	out.KeyLen = uint32(len(hash))
	return out, salt, hash, nil
}

func argon2idParamsEqual(a, b Argon2idParams) bool {
	return a.Time == b.Time && a.MemoryKiB == b.MemoryKiB && a.Parallelism == b.Parallelism && a.KeyLen == b.KeyLen && a.SaltLen == b.SaltLen
}

func defaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Time: 1, MemoryKiB: 64 * 1024, Parallelism: 4, KeyLen: 32, SaltLen: 16}
}
