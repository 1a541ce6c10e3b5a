package permission

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/logger"
)

//go:embed capabilities.yaml
var defaultCapabilities []byte

// CapabilityMap lists the capabilities each role holds.
type CapabilityMap struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadCapabilityMap reads path, or the built-in map when path is empty.
func LoadCapabilityMap(path string) (*CapabilityMap, error) {
	data := defaultCapabilities
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read capabilities file: %w", err)
		}
		data = raw
	}

	var m CapabilityMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse capabilities file: %w", err)
	}
	if len(m.Roles) == 0 {
		return nil, fmt.Errorf("capabilities file defines no roles")
	}
	return &m, nil
}

// SeedRoleCapabilities replaces each role's policies with the ones in m.
func SeedRoleCapabilities(e permission.Enforcer, m *CapabilityMap, log logger.Interface) error {
	roles := make([]string, 0, len(m.Roles))
	for role := range m.Roles {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		if err := e.RemoveSubjectPolicies(role); err != nil {
			return err
		}
		for _, c := range m.Roles[role] {
			if err := e.AddPolicy(role, permission.Capability(c)); err != nil {
				return fmt.Errorf("failed to seed %s for role %s: %w", c, role, err)
			}
		}
	}

	log.Infow("role capabilities seeded", "roles", len(roles))
	return nil
}
