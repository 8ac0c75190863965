package view

import (
	"strconv"

	"github.com/docker/go-connections/nat"
)

// ExtractPorts walks the network settings port map and emits one
// PortBinding per published host binding. Unpublished ports (nil or
// empty binding lists) are skipped entirely. A binding whose host port
// is missing or not an integer is skipped on its own without failing
// the rest of the extraction. Binding order within a port key is kept
// as reported; duplicates are kept too.
func ExtractPorts(portMap nat.PortMap) []PortBinding {
	var ports []PortBinding
	for _, bindings := range portMap {
		if len(bindings) == 0 {
			continue
		}
		for _, binding := range bindings {
			host := binding.HostIP
			if host == "" {
				host = "127.0.0.1"
			}
			port, err := strconv.Atoi(binding.HostPort)
			if err != nil {
				continue
			}
			ports = append(ports, PortBinding{Host: host, Port: port})
		}
	}
	return ports
}
