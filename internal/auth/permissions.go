package auth

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Permissions maps role -> []permission
type Permissions map[string][]string

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPermissions loads a permissions.yml file and returns a role->permissions map.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf permissionsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, err
	}
	return Permissions(pf.Roles), nil
}

// DefaultPermissions is the built-in role->permissions map used when no
// permissions.yml is supplied.
func DefaultPermissions() Permissions {
	return Permissions{
		string(RolePatient): {
			"appointment:view", "appointment:create", "appointment:cancel",
			"record:view", "prescription:view", "doctor:view",
		},
		string(RoleDoctor): {
			"appointment:view", "appointment:create", "appointment:cancel", "appointment:update",
			"record:view", "record:create",
			"prescription:view", "prescription:create", "prescription:cancel",
			"patient:view", "doctor:view",
		},
		string(RolePharmacist): {
			"prescription:view", "prescription:fill",
			"medication:view", "medication:create",
		},
		string(RoleAdmin): {
			"account:create", "account:view", "account:update", "account:delete",
			"appointment:view", "appointment:create", "appointment:cancel", "appointment:update",
			"record:view",
			"prescription:view", "prescription:cancel",
			"medication:view", "medication:create",
			"patient:view", "doctor:view",
		},
	}
}
