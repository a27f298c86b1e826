package projection

import "time"

// dateFields are the keys whose string values are restored to time.Time when
// rehydrating loosely-typed payloads loaded from the cache.
var dateFields = map[string]bool{
	"createdAt":       true,
	"created_at":      true,
	"lastLogin":       true,
	"last_login":      true,
	"updatedAt":       true,
	"updated_at":      true,
	"hatchTime":       true,
	"hatch_time":      true,
	"lastInteraction": true,
	"last_interaction": true,
	"deathDate":       true,
	"death_date":      true,
	"unlockedAt":      true,
	"unlocked_at":     true,
	"collectedAt":     true,
	"collected_at":    true,
	"expiresAt":       true,
	"expires_at":      true,
}

// RehydrateDates walks a decoded JSON tree and converts RFC 3339 strings
// under known date-bearing keys back into time.Time values. Non-date strings
// and unparseable values are left untouched.
func RehydrateDates(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		for key, val := range node {
			if s, ok := val.(string); ok && dateFields[key] {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					node[key] = ts
					continue
				}
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					node[key] = ts
					continue
				}
			}
			node[key] = RehydrateDates(val)
		}
		return node
	case []interface{}:
		for i, val := range node {
			node[i] = RehydrateDates(val)
		}
		return node
	default:
		return v
	}
}
