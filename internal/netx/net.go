// Package netx picks host network attributes out of the interface list.
package netx

import (
	"net"
)

// Iface is the part of a net.Interface needed to pick host addresses.
type Iface struct {
	Name         string
	Flags        net.Flags
	HardwareAddr net.HardwareAddr
	Addrs        []net.Addr
}

// Interfaces lists the host interfaces together with their addresses.
// Interfaces whose addresses cannot be read are returned without them.
func Interfaces() ([]Iface, error) {
	list, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Iface, 0, len(list))
	for _, i := range list {
		addrs, _ := i.Addrs()
		out = append(out, Iface{
			Name:         i.Name,
			Flags:        i.Flags,
			HardwareAddr: i.HardwareAddr,
			Addrs:        addrs,
		})
	}
	return out, nil
}

// FirstIPv4 returns the first IPv4 address that is not loopback.
func FirstIPv4(ifaces []Iface) (string, bool) {
	for _, i := range ifaces {
		if i.Flags&net.FlagLoopback != 0 {
			continue
		}
		for _, a := range i.Addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
				return ip4.String(), true
			}
		}
	}
	return "", false
}

// FirstMAC returns the hardware address of the first non-loopback interface
// that has one.
func FirstMAC(ifaces []Iface) (string, bool) {
	for _, i := range ifaces {
		if i.Flags&net.FlagLoopback != 0 || len(i.HardwareAddr) == 0 {
			continue
		}
		return i.HardwareAddr.String(), true
	}
	return "", false
}
