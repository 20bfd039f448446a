package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/filekeeper/internal/client/session"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/cryptox"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/google/uuid"
)

const (
	metaPassword = "password"
	metaTrustID  = "trustid"
)

// UserService binds identities to the session.
//
// Contract:
//   - Register: create the identity locally and replicate it remotely.
//   - Login: verify the password against the remote copy, or the local one
//     when the remote is unreachable, and open the identity's store.
//   - Info: the remote view of the bound user.
//   - Logout: mark the user offline, close the store, wipe the key.
//   - Known: identities with cached credentials on this machine.
type UserService interface {
	Register(ctx context.Context, username string, password []byte) (*models.User, error)
	Login(ctx context.Context, username string, password []byte) (*models.User, error)
	Info(ctx context.Context) (map[string]string, error)
	Logout(ctx context.Context) error
	Known(ctx context.Context) ([]string, error)
}

type userService struct {
	sess   *session.Session
	remote Remote
	sync   SyncService
	stores *Stores
	db     *sql.DB
	log    logging.Logger
}

func NewUserService(sess *session.Session, r Remote, sync SyncService, stores *Stores, db *sql.DB, log logging.Logger) UserService {
	return &userService{sess: sess, remote: r, sync: sync, stores: stores, db: db, log: log.With("service", "user")}
}

func validateUsername(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty username", common.ErrInvalidInput)
	}
	if strings.IndexFunc(name, func(r rune) bool { return unicode.IsSpace(r) || r == ':' || r == '/' }) >= 0 {
		return fmt.Errorf("%w: username %q has forbidden characters", common.ErrInvalidInput, name)
	}
	return nil
}

func (s *userService) hash(node models.Node, username string, password []byte) string {
	return hex.EncodeToString(cryptox.HashPassword(password, node.UUID+username))
}

func (s *userService) Register(ctx context.Context, username string, password []byte) (*models.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}

	node := s.sess.Node()
	key, err := cryptox.DeriveUserKey(node.UUID, username)
	if err != nil {
		return nil, err
	}

	rep, err := s.remote.Send(ctx, remote.GetUserRequest{NodeUUID: node.UUID, Username: username})
	if err == nil && !rep.Empty() {
		return nil, fmt.Errorf("user %s: %w", username, common.ErrAlreadyExists)
	}
	if _, err := s.localHash(ctx, username); err == nil {
		return nil, fmt.Errorf("user %s: %w", username, common.ErrAlreadyExists)
	}

	hash := s.hash(node, username, password)
	trustID := uuid.NewString()

	err = dbx.InTx(ctx, s.db, metadata.NewSQLiteRepository, func(ctx context.Context, repo *metadata.SQLiteRepository) error {
		if err := repo.Set(ctx, metadata.UserKey(username, metaPassword), []byte(hash)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.UserKey(username, metaTrustID), []byte(trustID))
	})
	if err != nil {
		return nil, fmt.Errorf("saving user metadata: %w", err)
	}

	if _, err := s.stores.Open(username); err != nil {
		s.forget(ctx, username)
		return nil, err
	}

	if _, err := s.sync.Deliver(ctx, remote.SetNodeRequest{Node: node}); err != nil {
		s.log.Warn(ctx, "node not replicated", "err", err)
	}
	if _, err := s.sync.Deliver(ctx, remote.RegisterUserRequest{
		NodeUUID: node.UUID,
		Username: username,
		Password: hash,
		Online:   true,
	}); err != nil {
		s.log.Warn(ctx, "user not replicated", "user", username, "err", err)
	}

	u := &models.User{
		Username: username,
		Password: []byte(hash),
		TrustID:  trustID,
		Online:   s.sess.Online(),
		Node:     &node,
		Key:      key,
	}
	s.sess.SetUser(u)

	s.log.Info(ctx, "user registered", "user", username, "trustid", trustID)
	return u, nil
}

// forget drops the cached credentials of username.
func (s *userService) forget(ctx context.Context, username string) {
	err := dbx.InTx(ctx, s.db, metadata.NewSQLiteRepository, func(ctx context.Context, repo *metadata.SQLiteRepository) error {
		for _, field := range []string{metaPassword, metaTrustID} {
			if err := repo.Delete(ctx, metadata.UserKey(username, field)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "dropping cached credentials", "user", username, "err", err)
	}
}

// Known lists the identities registered on this machine, sorted.
func (s *userService) Known(ctx context.Context) ([]string, error) {
	kv, err := metadata.NewSQLiteRepository(s.db).List(ctx, metadata.UserPrefix)
	if err != nil {
		return nil, err
	}

	var names []string
	for key := range kv {
		rest := strings.TrimPrefix(key, metadata.UserPrefix)
		if name, ok := strings.CutSuffix(rest, ":"+metaPassword); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *userService) localHash(ctx context.Context, username string) (string, error) {
	b, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.UserKey(username, metaPassword))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *userService) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	node := s.sess.Node()
	key, err := cryptox.DeriveUserKey(node.UUID, username)
	if err != nil {
		return nil, err
	}

	var stored string
	rep, rerr := s.remote.Send(ctx, remote.GetUserRequest{NodeUUID: node.UUID, Username: username})
	switch {
	case rerr == nil && !rep.Empty():
		stored = rep.Fields[remote.FieldPassword]
	default:
		if rerr != nil {
			s.log.Warn(ctx, "remote unavailable, checking local credentials", "err", rerr)
		}
		if !s.stores.Exists(username) {
			return nil, fmt.Errorf("user %s: %w", username, common.ErrUnauthorized)
		}
		stored, err = s.localHash(ctx, username)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("user %s: %w", username, common.ErrUnauthorized)
		}
		if err != nil {
			return nil, err
		}
	}

	expected, derr := hex.DecodeString(stored)
	if derr != nil || !cryptox.VerifyPassword(password, node.UUID+username, expected) {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("user %s: %w", username, common.ErrUnauthorized)
	}

	if _, err := s.stores.Open(username); err != nil {
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(s.db)
	if err := repo.Set(ctx, metadata.UserKey(username, metaPassword), []byte(stored)); err != nil {
		s.log.Warn(ctx, "caching credentials failed", "err", err)
	}
	trustID, err := repo.Get(ctx, metadata.UserKey(username, metaTrustID))
	if err != nil {
		s.log.Warn(ctx, "no cached trust id", "user", username, "err", err)
	}

	if _, err := s.sync.Deliver(ctx, remote.LoginRequest{NodeUUID: node.UUID, Username: username, Online: true}); err != nil {
		s.log.Warn(ctx, "login state not replicated", "user", username, "err", err)
	}

	u := &models.User{
		Username: username,
		Password: []byte(stored),
		TrustID:  string(trustID),
		Online:   s.sess.Online(),
		Node:     &node,
		Key:      key,
	}
	s.sess.SetUser(u)

	s.log.Info(ctx, "user logged in", "user", username)
	return u, nil
}

func (s *userService) Info(ctx context.Context) (map[string]string, error) {
	u := s.sess.User()
	if u == nil {
		return nil, common.ErrNotLoggedIn
	}

	rep, err := s.remote.Send(ctx, remote.GetUserRequest{NodeUUID: u.Node.UUID, Username: u.Username})
	if err != nil {
		return nil, err
	}
	if rep.Empty() {
		return nil, fmt.Errorf("user %s: %w", u.Username, common.ErrorNotFound)
	}
	return rep.Fields, nil
}

func (s *userService) Logout(ctx context.Context) error {
	u := s.sess.User()
	if u == nil {
		return common.ErrNotLoggedIn
	}

	if _, err := s.sync.Deliver(ctx, remote.LoginRequest{NodeUUID: u.Node.UUID, Username: u.Username, Online: false}); err != nil {
		s.log.Warn(ctx, "logout state not replicated", "user", u.Username, "err", err)
	}

	err := s.stores.Close()
	s.sess.ClearUser()

	s.log.Info(ctx, "user logged out", "user", u.Username)
	return err
}
