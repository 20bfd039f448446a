package remote

import (
	"strconv"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
)

// Request is a typed remote call. Params supplies the template placeholders.
type Request interface {
	Action() ActionType
	Params() map[string]string
}

func onlineFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

type SetNodeRequest struct {
	Node models.Node
}

func (r SetNodeRequest) Action() ActionType { return ActionSetNode }
func (r SetNodeRequest) Params() map[string]string {
	return map[string]string{"uuid": r.Node.UUID, "ip": r.Node.IP, "mac": r.Node.MAC}
}

type RegisterUserRequest struct {
	NodeUUID string
	Username string
	Password string
	Online   bool
}

func (r RegisterUserRequest) Action() ActionType { return ActionRegisterUser }
func (r RegisterUserRequest) Params() map[string]string {
	return map[string]string{
		"uuid":     r.NodeUUID,
		"username": r.Username,
		"password": r.Password,
		"isonline": onlineFlag(r.Online),
	}
}

type LoginRequest struct {
	NodeUUID string
	Username string
	Online   bool
}

func (r LoginRequest) Action() ActionType { return ActionLogin }
func (r LoginRequest) Params() map[string]string {
	return map[string]string{"uuid": r.NodeUUID, "username": r.Username, "isonline": onlineFlag(r.Online)}
}

type GetUserRequest struct {
	NodeUUID string
	Username string
}

func (r GetUserRequest) Action() ActionType { return ActionGetUser }
func (r GetUserRequest) Params() map[string]string {
	return map[string]string{"uuid": r.NodeUUID, "username": r.Username}
}

type GetNodeRequest struct {
	NodeUUID string
}

func (r GetNodeRequest) Action() ActionType { return ActionGetNode }
func (r GetNodeRequest) Params() map[string]string {
	return map[string]string{"uuid": r.NodeUUID}
}

// FileCryptRequest replicates the metadata of a freshly encrypted file.
type FileCryptRequest struct {
	NodeUUID string
	Username string
	Record   models.FileRecord
}

func (r FileCryptRequest) Action() ActionType { return ActionFileCrypt }
func (r FileCryptRequest) Params() map[string]string {
	return map[string]string{
		"uuid":        r.NodeUUID,
		"username":    r.Username,
		"fingerprint": strconv.FormatUint(r.Record.Fingerprint, 10),
		"filename":    r.Record.Name,
		"path":        r.Record.Path,
	}
}

// GetFileRequest fetches one file hash by its full key, as returned by
// LIST-FILES.
type GetFileRequest struct {
	Key string
}

func (r GetFileRequest) Action() ActionType { return ActionGetFile }
func (r GetFileRequest) Params() map[string]string {
	return map[string]string{"key": r.Key}
}

type ListFilesRequest struct {
	NodeUUID string
	Username string
}

func (r ListFilesRequest) Action() ActionType { return ActionListFiles }
func (r ListFilesRequest) Params() map[string]string {
	return map[string]string{"uuid": r.NodeUUID, "username": r.Username}
}

// RawRequest carries an action with already extracted params. It is how
// queued requests are replayed.
type RawRequest struct {
	Type   ActionType
	Values map[string]string
}

func (r RawRequest) Action() ActionType        { return r.Type }
func (r RawRequest) Params() map[string]string { return r.Values }
