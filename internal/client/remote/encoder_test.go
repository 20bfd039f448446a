package remote

import (
	"testing"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, a ActionType) Descriptor {
	t.Helper()
	d, ok := Lookup(a)
	require.True(t, ok)
	return d
}

func TestEncode_FileCrypt(t *testing.T) {
	req := FileCryptRequest{
		NodeUUID: "N1",
		Username: "alice",
		Record:   models.FileRecord{Name: "report.pdf", Path: "/tmp/report.pdf", Fingerprint: 42},
	}

	args, err := Encode(mustLookup(t, ActionFileCrypt), req)
	require.NoError(t, err)
	assert.Equal(t, []any{
		"HSET", "node:N1:user:alice:files:42",
		"filename", "report.pdf",
		"path", "/tmp/report.pdf",
		"uuid", "42",
	}, args)
}

func TestEncode_Templates(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []any
	}{
		{
			name: "set node",
			req:  SetNodeRequest{Node: models.Node{IP: "10.0.0.1", MAC: "aa:bb", UUID: "N1"}},
			want: []any{"HSET", "node:N1", "uuid", "N1", "ip", "10.0.0.1", "mac", "aa:bb"},
		},
		{
			name: "register",
			req:  RegisterUserRequest{NodeUUID: "N1", Username: "alice", Password: "h", Online: true},
			want: []any{"HSET", "node:N1:user:alice", "username", "alice", "password", "h", "isonline", "1"},
		},
		{
			name: "login offline",
			req:  LoginRequest{NodeUUID: "N1", Username: "alice"},
			want: []any{"HSET", "node:N1:user:alice", "isonline", "0"},
		},
		{
			name: "get user",
			req:  GetUserRequest{NodeUUID: "N1", Username: "alice"},
			want: []any{"HGETALL", "node:N1:user:alice"},
		},
		{
			name: "get node",
			req:  GetNodeRequest{NodeUUID: "N1"},
			want: []any{"HGETALL", "node:N1"},
		},
		{
			name: "get file",
			req:  GetFileRequest{Key: "node:N1:user:alice:files:7"},
			want: []any{"HGETALL", "node:N1:user:alice:files:7"},
		},
		{
			name: "list files",
			req:  ListFilesRequest{NodeUUID: "N1", Username: "alice"},
			want: []any{"KEYS", "node:N1:user:alice:files:*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(mustLookup(t, tt.req.Action()), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_ValueWithSpacesStaysOneArgument(t *testing.T) {
	req := FileCryptRequest{
		NodeUUID: "N1",
		Username: "alice",
		Record:   models.FileRecord{Name: "q3 report.pdf", Path: "/home/u/My Documents/q3 report.pdf", Fingerprint: 7},
	}

	args, err := Encode(mustLookup(t, ActionFileCrypt), req)
	require.NoError(t, err)
	assert.Equal(t, []any{
		"HSET", "node:N1:user:alice:files:7",
		"filename", "q3 report.pdf",
		"path", "/home/u/My Documents/q3 report.pdf",
		"uuid", "7",
	}, args)
}

func TestEncode_Rejects(t *testing.T) {
	d := mustLookup(t, ActionGetUser)

	_, err := Encode(d, GetUserRequest{NodeUUID: "N1"})
	require.ErrorIs(t, err, common.ErrInvalidInput, "empty")

	_, err = Encode(d, RawRequest{Type: ActionGetUser, Values: map[string]string{"uuid": "N1"}})
	require.ErrorIs(t, err, common.ErrInvalidInput, "missing")

	_, err = Encode(d, GetNodeRequest{NodeUUID: "N1"})
	require.ErrorIs(t, err, common.ErrInvalidInput, "action mismatch")

	_, err = Encode(d, nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = Encode(Descriptor{Type: ActionGetNode, Template: "HGETALL node:{uuid"}, GetNodeRequest{NodeUUID: "N1"})
	require.ErrorIs(t, err, common.ErrInvalidInput, "unterminated")
}
