// Package remote replicates node, user and file metadata to a remote hash
// store (Redis protocol).
//
// Every interaction is one of a fixed set of actions. Each action has a
// Descriptor holding its command template and the decoder for its reply.
// Requests are typed structs; Encode fills the template from their Params.
package remote

import "fmt"

// ActionType names one remote interaction.
type ActionType int

const (
	ActionSetNode ActionType = iota + 1
	ActionRegisterUser
	ActionLogin
	ActionGetUser
	ActionGetNode
	ActionFileCrypt
	ActionGetFile
	ActionListFiles
)

func (t ActionType) String() string {
	switch t {
	case ActionSetNode:
		return "SET-NODE"
	case ActionRegisterUser:
		return "REGISTER-USER"
	case ActionLogin:
		return "LOGIN"
	case ActionGetUser:
		return "GET-USER"
	case ActionGetNode:
		return "GET-NODE"
	case ActionFileCrypt:
		return "FILE-CRYPT"
	case ActionGetFile:
		return "GET-FILE"
	case ActionListFiles:
		return "LIST-FILES"
	default:
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
}

// ParseActionType is the inverse of ActionType.String.
func ParseActionType(s string) (ActionType, bool) {
	for _, d := range table {
		if d.Type.String() == s {
			return d.Type, true
		}
	}
	return 0, false
}

// ReplyDecoder turns a raw protocol reply into a Reply.
type ReplyDecoder func(raw any) (Reply, error)

// Descriptor binds an action to its command template and reply decoder.
// Placeholders in Template are written {name}.
type Descriptor struct {
	Type     ActionType
	Template string
	Decode   ReplyDecoder
}

// Reply field names.
const (
	FieldUUID     = "uuid"
	FieldIP       = "ip"
	FieldMAC      = "mac"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldIsOnline = "isonline"
	FieldFilename = "filename"
	FieldPath     = "path"
)

var table = [...]Descriptor{
	{
		Type:     ActionSetNode,
		Template: "HSET node:{uuid} uuid {uuid} ip {ip} mac {mac}",
		Decode:   decodeStatus,
	},
	{
		Type:     ActionRegisterUser,
		Template: "HSET node:{uuid}:user:{username} username {username} password {password} isonline {isonline}",
		Decode:   decodeStatus,
	},
	{
		Type:     ActionLogin,
		Template: "HSET node:{uuid}:user:{username} isonline {isonline}",
		Decode:   decodeStatus,
	},
	{
		Type:     ActionGetUser,
		Template: "HGETALL node:{uuid}:user:{username}",
		Decode:   hashDecoder(FieldUsername, FieldPassword, FieldIsOnline),
	},
	{
		Type:     ActionGetNode,
		Template: "HGETALL node:{uuid}",
		Decode:   hashDecoder(FieldUUID, FieldIP, FieldMAC),
	},
	{
		Type:     ActionFileCrypt,
		Template: "HSET node:{uuid}:user:{username}:files:{fingerprint} filename {filename} path {path} uuid {fingerprint}",
		Decode:   decodeStatus,
	},
	{
		Type:     ActionGetFile,
		Template: "HGETALL {key}",
		Decode:   hashDecoder(FieldFilename, FieldPath, FieldUUID),
	},
	{
		Type:     ActionListFiles,
		Template: "KEYS node:{uuid}:user:{username}:files:*",
		Decode:   decodeKeys,
	},
}

// Lookup returns the descriptor for t.
func Lookup(t ActionType) (Descriptor, bool) {
	for _, d := range table {
		if d.Type == t {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Actions lists every known action in table order.
func Actions() []ActionType {
	out := make([]ActionType, len(table))
	for i, d := range table {
		out[i] = d.Type
	}
	return out
}
