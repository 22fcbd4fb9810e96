package validation

import "strings"

// baseRoles is the AMR role set shared by every role_set_version.
var baseRoles = buildRoleSet(
	"ARG0", "ARG1", "ARG2", "ARG3", "ARG4", "ARG5", "ARG6",
	"ARGM-ADV", "ARGM-CAU", "ARGM-CND", "ARGM-DIR", "ARGM-DIS",
	"ARGM-EXT", "ARGM-LOC", "ARGM-MNR", "ARGM-MOD", "ARGM-NEG",
	"ARGM-PRD", "ARGM-PRP", "ARGM-REC", "ARGM-TMP",
)

// trPropbankExtraRoles extends the base set for role_set_version values
// beginning with "tr-propbank" (case-insensitive).
var trPropbankExtraRoles = []string{"ARGM-CAUS", "ARGM-ADJ"}

func buildRoleSet(roles ...string) map[string]bool {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}

// AllowedRoles returns the set-membership table for a project's
// role_set_version. Unknown versions fall back to the base set.
func AllowedRoles(roleSetVersion string) map[string]bool {
	if !strings.HasPrefix(strings.ToLower(roleSetVersion), "tr-propbank") {
		return baseRoles
	}
	extended := make(map[string]bool, len(baseRoles)+len(trPropbankExtraRoles))
	for r := range baseRoles {
		extended[r] = true
	}
	for _, r := range trPropbankExtraRoles {
		extended[r] = true
	}
	return extended
}

// normalizeRoleName strips the leading ':' and upper-cases an ARG*
// role for set-membership comparison. Non-ARG roles (e.g. ":name",
// ":op1") are returned with only the ':' stripped and are never part
// of the allowed set, so membership tests naturally skip them.
func normalizeRoleName(role string) string {
	name := strings.TrimPrefix(role, ":")
	if strings.HasPrefix(strings.ToUpper(name), "ARG") {
		return strings.ToUpper(name)
	}
	return name
}

// isArgRole reports whether a bare (':'-stripped, upper-cased) role
// name looks like a PropBank-style argument role.
func isArgRole(name string) bool {
	return strings.HasPrefix(name, "ARG")
}
