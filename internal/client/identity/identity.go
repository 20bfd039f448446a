// Package identity discovers the attributes of the host node.
package identity

import (
	"os"
	"strings"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/netx"
)

// DefaultMachineIDPath is where the host UUID is read from.
const DefaultMachineIDPath = "/etc/machine-id"

// Source yields the node the client runs on.
type Source interface {
	Node() models.Node
}

// Host discovers the node from the operating system. Zero value is usable.
type Host struct {
	MachineIDPath string
	Interfaces    func() ([]netx.Iface, error)
}

// Node never fails: attributes that cannot be read are models.Unknown.
func (h Host) Node() models.Node {
	n := models.Node{IP: models.Unknown, MAC: models.Unknown, UUID: models.Unknown}

	list := h.Interfaces
	if list == nil {
		list = netx.Interfaces
	}
	if ifaces, err := list(); err == nil {
		if ip, ok := netx.FirstIPv4(ifaces); ok {
			n.IP = ip
		}
		if mac, ok := netx.FirstMAC(ifaces); ok {
			n.MAC = mac
		}
	}

	path := h.MachineIDPath
	if path == "" {
		path = DefaultMachineIDPath
	}
	if b, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(b)); id != "" {
			n.UUID = id
		}
	}

	return n
}

// Static always returns the same node.
type Static models.Node

func (s Static) Node() models.Node { return models.Node(s) }

// Discover reads the node from the current host.
func Discover() models.Node {
	return Host{}.Node()
}
