package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/client/session"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/cryptox"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// FileService runs the encrypt, fingerprint, persist, replicate pipeline for
// the bound user.
type FileService interface {
	Encrypt(ctx context.Context, path string) (*models.FileRecord, error)
	Decrypt(ctx context.Context, path string) (*models.FileRecord, error)
	ListLocal(ctx context.Context) ([]models.FileRecord, error)
	ListRemote(ctx context.Context) ([]models.FileRecord, error)
	Fingerprint(ctx context.Context, path string) (uint64, error)
}

type fileService struct {
	sess   *session.Session
	remote Remote
	sync   SyncService
	stores *Stores
	log    logging.Logger
}

func NewFileService(sess *session.Session, r Remote, sync SyncService, stores *Stores, log logging.Logger) FileService {
	return &fileService{sess: sess, remote: r, sync: sync, stores: stores, log: log.With("service", "file")}
}

func (s *fileService) bound() (*models.User, error) {
	u := s.sess.User()
	if u == nil {
		return nil, common.ErrNotLoggedIn
	}
	return u, nil
}

func absPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", common.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", common.ErrIO, path, err)
	}
	return abs, nil
}

// Encrypt encrypts the file in place, stores its record under the
// fingerprint of the encrypted bytes and replicates the record. A failed
// replication is queued and does not fail the call.
func (s *fileService) Encrypt(ctx context.Context, path string) (*models.FileRecord, error) {
	u, err := s.bound()
	if err != nil {
		return nil, err
	}
	st, err := s.stores.Current()
	if err != nil {
		return nil, err
	}

	abs, err := absPath(path)
	if err != nil {
		return nil, err
	}

	rec := &models.FileRecord{Name: filepath.Base(abs), Path: abs, Type: models.FileTypeEncrypted}
	// reject what the record cannot hold before touching the file
	if _, err := rec.MarshalBinary(); err != nil {
		return nil, err
	}

	if err := cryptox.EncryptInPlace(abs, u.Key); err != nil {
		return nil, err
	}

	rec.Fingerprint, err = cryptox.Fingerprint(abs)
	if err != nil {
		s.log.Error(ctx, "file encrypted but not fingerprinted", "path", abs, "err", err)
		return nil, err
	}

	if err := st.Put(ctx, u.Username, rec); err != nil {
		s.log.Error(ctx, "file encrypted but record not stored", "path", abs, "fingerprint", rec.Fingerprint, "err", err)
		return nil, err
	}

	if _, err := s.sync.Deliver(ctx, remote.FileCryptRequest{
		NodeUUID: u.Node.UUID,
		Username: u.Username,
		Record:   *rec,
	}); err != nil {
		s.log.Warn(ctx, "file record not replicated", "fingerprint", rec.Fingerprint, "err", err)
	}

	s.log.Info(ctx, "file encrypted", "path", abs, "fingerprint", rec.Fingerprint)
	return rec, nil
}

// Decrypt decrypts the file in place with the session key. When a record
// exists for the encrypted content it is re-stored as plain.
func (s *fileService) Decrypt(ctx context.Context, path string) (*models.FileRecord, error) {
	u, err := s.bound()
	if err != nil {
		return nil, err
	}
	st, err := s.stores.Current()
	if err != nil {
		return nil, err
	}

	abs, err := absPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := filex.CheckSize(abs, cryptox.MaxFileSize+cryptox.BlockSize); err != nil {
		return nil, err
	}

	fp, err := cryptox.Fingerprint(abs)
	if err != nil {
		return nil, err
	}

	rec, err := st.Get(ctx, u.Username, fp)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.log.Warn(ctx, "no record for file", "path", abs, "fingerprint", fp)
		rec = &models.FileRecord{Name: filepath.Base(abs), Path: abs, Fingerprint: fp}
	case err != nil:
		return nil, err
	}

	if err := cryptox.DecryptInPlace(abs, u.Key); err != nil {
		return nil, err
	}

	known := rec.Type != 0
	rec.Type = models.FileTypePlain
	if known {
		if err := st.Put(ctx, u.Username, rec); err != nil {
			s.log.Error(ctx, "file decrypted but record not updated", "path", abs, "err", err)
			return nil, err
		}
	}

	s.log.Info(ctx, "file decrypted", "path", abs, "fingerprint", fp)
	return rec, nil
}

func (s *fileService) ListLocal(ctx context.Context) ([]models.FileRecord, error) {
	u, err := s.bound()
	if err != nil {
		return nil, err
	}
	st, err := s.stores.Current()
	if err != nil {
		return nil, err
	}

	var out []models.FileRecord
	for rec, err := range st.List(ctx, u.Username) {
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}

	s.sess.SetLocal(out)
	return out, nil
}

// ListRemote fetches the replicated records of the bound user. Keys whose
// hash cannot be read are logged and skipped.
func (s *fileService) ListRemote(ctx context.Context) ([]models.FileRecord, error) {
	u, err := s.bound()
	if err != nil {
		return nil, err
	}

	rep, err := s.remote.Send(ctx, remote.ListFilesRequest{NodeUUID: u.Node.UUID, Username: u.Username})
	if err != nil {
		return nil, err
	}

	s.sess.ResetRemote()
	keys := slices.Clone(rep.Keys)
	slices.Sort(keys)

	for _, key := range keys {
		frep, err := s.remote.Send(ctx, remote.GetFileRequest{Key: key})
		if err != nil {
			s.log.Warn(ctx, "skipping remote file", "key", key, "err", err)
			continue
		}
		fp, err := strconv.ParseUint(frep.Fields[remote.FieldUUID], 10, 64)
		if err != nil {
			s.log.Warn(ctx, "skipping remote file with bad fingerprint", "key", key, "err", err)
			continue
		}
		s.sess.AppendRemote(models.FileRecord{
			Name:        frep.Fields[remote.FieldFilename],
			Path:        frep.Fields[remote.FieldPath],
			Fingerprint: fp,
			Type:        models.FileTypeEncrypted,
		})
	}

	return s.sess.Remote(), nil
}

func (s *fileService) Fingerprint(ctx context.Context, path string) (uint64, error) {
	abs, err := absPath(path)
	if err != nil {
		return 0, err
	}
	if _, err := filex.CheckSize(abs, cryptox.MaxFileSize+cryptox.BlockSize); err != nil {
		return 0, err
	}

	fp, err := cryptox.Fingerprint(abs)
	if err != nil {
		return 0, err
	}

	s.log.Debug(ctx, "fingerprint", "path", abs, "fingerprint", fp)
	return fp, nil
}
